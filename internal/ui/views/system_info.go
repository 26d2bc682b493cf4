package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath      string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	DefaultCurrency string
	AppDataDir      string
	ExportDir       string
	LogLevel        string
	Accounts        int
	Transactions    int
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Default Currency", data.DefaultCurrency},
		{"AppData Directory", data.AppDataDir},
		{"Export Directory", data.ExportDir},
		{"Log Level", data.LogLevel},
		{"Accounts", pterm.Sprint(data.Accounts)},
		{"Transactions", pterm.Sprint(data.Transactions)},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
