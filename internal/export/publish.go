package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Publisher writes exports into a directory. Output goes to a temporary file
// first and is renamed into place only when generation succeeded, so a
// failed or cancelled run never leaves a partial file behind.
type Publisher struct {
	fs        afero.Fs
	dir       string
	overwrite OverwriteFunc
}

// ErrOverwriteDeclined is returned when an existing file was kept.
var ErrOverwriteDeclined = errors.New("existing file kept")

// OverwriteFunc decides whether an existing file at path may be replaced.
type OverwriteFunc func(path string) (bool, error)

func NewPublisher(fs afero.Fs, dir string) *Publisher {
	return &Publisher{fs: fs, dir: dir}
}

// WithOverwrite makes the publisher ask fn before replacing any existing
// file. Every target is checked before the first one is written. Without it
// existing files are replaced.
func (p *Publisher) WithOverwrite(fn OverwriteFunc) *Publisher {
	p.overwrite = fn
	return p
}

// Publish runs gen and returns the paths of the published files. Generators
// that implement Splitter publish one file per document, keyed into the
// name; a single document keeps the plain name.
func (p *Publisher) Publish(ctx context.Context, name string, gen Generator) ([]string, error) {
	log := zerolog.Ctx(ctx)

	if err := p.fs.MkdirAll(p.dir, 0o755); err != nil {
		return nil, Fail("publish", "", fmt.Errorf("failed to create %s: %w", p.dir, err))
	}

	tmp, err := p.generate(ctx, name, gen)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = p.fs.Remove(tmp)
	}()

	splitter, ok := gen.(Splitter)
	if !ok {
		target := filepath.Join(p.dir, name)
		if err := p.confirm(target); err != nil {
			return nil, err
		}
		if err := p.fs.Rename(tmp, target); err != nil {
			return nil, Fail("publish", "", fmt.Errorf("failed to publish %s: %w", target, err))
		}
		log.Debug().Str("path", target).Msg("export published")
		return []string{target}, nil
	}

	raw, err := afero.ReadFile(p.fs, tmp)
	if err != nil {
		return nil, Fail("publish", "", err)
	}
	docs, err := splitter.Split(bytes.NewReader(raw))
	if err != nil {
		return nil, Fail("split", "", err)
	}

	targets := make([]string, len(docs))
	for i, doc := range docs {
		targets[i] = filepath.Join(p.dir, name)
		if len(docs) > 1 {
			targets[i] = filepath.Join(p.dir, keyedName(name, doc.Key))
		}
	}
	if err := p.confirm(targets...); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(docs))
	for i, doc := range docs {
		target := targets[i]
		if err := p.write(target, doc.Data); err != nil {
			return paths, Fail("publish", "", err)
		}
		log.Debug().Str("path", target).Str("key", doc.Key).Msg("export published")
		paths = append(paths, target)
	}
	return paths, nil
}

func (p *Publisher) confirm(targets ...string) error {
	if p.overwrite == nil {
		return nil
	}
	for _, target := range targets {
		exists, err := afero.Exists(p.fs, target)
		if err != nil {
			return Fail("publish", "", err)
		}
		if !exists {
			continue
		}
		ok, err := p.overwrite(target)
		if err != nil {
			return err
		}
		if !ok {
			return Fail("publish", "", fmt.Errorf("'%s' was left unchanged: %w", target, ErrOverwriteDeclined))
		}
	}
	return nil
}

func (p *Publisher) generate(ctx context.Context, name string, gen Generator) (string, error) {
	f, err := afero.TempFile(p.fs, p.dir, "."+name+"-*.tmp")
	if err != nil {
		return "", Fail("publish", "", fmt.Errorf("failed to create temporary file: %w", err))
	}
	tmp := f.Name()

	err = gen.Generate(ctx, f)
	if err == nil {
		err = Cancelled(ctx, "generate")
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = Fail("publish", "", closeErr)
	}
	if err != nil {
		_ = p.fs.Remove(tmp)
		return "", Fail("generate", "", err)
	}
	return tmp, nil
}

func (p *Publisher) write(target string, data []byte) error {
	f, err := afero.TempFile(p.fs, p.dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = p.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = p.fs.Remove(tmp)
		return err
	}
	return p.fs.Rename(tmp, target)
}

// keyedName turns ("ledger.qif", "USD") into "ledger-USD.qif".
func keyedName(name, key string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + key + ext
}
