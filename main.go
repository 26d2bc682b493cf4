package main

import (
	"github.com/hance08/keabook/cmd"
	"github.com/hance08/keabook/internal/store"
)

func main() {
	cmd.Execute(store.Migrations)
}
