package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"shipnotify/internal/types"
)

// LoaderConfig names the three source files and the schemas to resolve
// them against. Zero-value schemas fall back to the production defaults.
type LoaderConfig struct {
	ContactsPath  string
	ShipmentsPath string
	SlipsPath     string

	ContactsSchema  Schema
	ShipmentsSchema Schema
	SlipsSchema     Schema

	Logger types.Logger
}

// Load reads the three CSV exports concurrently and returns a read-only
// Store. Files ending in ".gz" are transparently decompressed. Digit-only
// cells are normalized to integers; blank cells become empty-string
// values. A header missing any schema column fails the whole load.
func Load(ctx context.Context, cfg LoaderConfig) (*Store, error) {
	if cfg.ContactsSchema == nil {
		cfg.ContactsSchema = DefaultContactsSchema()
	}
	if cfg.ShipmentsSchema == nil {
		cfg.ShipmentsSchema = DefaultShipmentsSchema()
	}
	if cfg.SlipsSchema == nil {
		cfg.SlipsSchema = DefaultSlipsSchema()
	}

	store := &Store{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loadTable(ctx, "contacts", cfg.ContactsPath, cfg.ContactsSchema)
		store.Contacts = t
		return err
	})
	g.Go(func() error {
		t, err := loadTable(ctx, "shipments", cfg.ShipmentsPath, cfg.ShipmentsSchema)
		store.Shipments = t
		return err
	})
	g.Go(func() error {
		t, err := loadTable(ctx, "packing_slips", cfg.SlipsPath, cfg.SlipsSchema)
		store.Slips = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("record store loaded",
			"contacts", store.Contacts.Len(),
			"shipments", store.Shipments.Len(),
			"packing_slip_lines", store.Slips.Len(),
		)
	}
	return store, nil
}

func loadTable(ctx context.Context, name, path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot open %s table file %q", name, path), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigInvalid,
				fmt.Sprintf("cannot decompress %s table file %q", name, path), err)
		}
		defer gz.Close()
		r = gz
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports occasionally carry ragged trailing cells

	header, err := cr.Read()
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot read %s header", name), err)
	}

	cols, err := resolveColumns(name, header, schema)
	if err != nil {
		return nil, err
	}

	var rows []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigInvalid,
				fmt.Sprintf("malformed row in %s table", name), err)
		}
		rec := make(Record, len(cols))
		for field, idx := range cols {
			cell := ""
			if idx < len(raw) {
				cell = raw[idx]
			}
			rec[field] = ParseValue(cell)
		}
		rows = append(rows, rec)
	}

	return NewTable(name, rows), nil
}

// resolveColumns maps each schema field to a header position. Duplicate
// labels resolve to the last occurrence; a label nowhere in the header is
// a startup error.
func resolveColumns(table string, header []string, schema Schema) (map[Field]int, error) {
	byLabel := make(map[string]int, len(header))
	for i, label := range header {
		byLabel[strings.TrimSpace(label)] = i
	}

	cols := make(map[Field]int, len(schema))
	for field, label := range schema {
		idx, ok := byLabel[label]
		if !ok {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeConfigInvalid,
				fmt.Sprintf("%s table is missing column %q", table, label),
				nil,
				map[string]any{"table": table, "field": string(field), "column": label},
			)
		}
		cols[field] = idx
	}
	return cols, nil
}
