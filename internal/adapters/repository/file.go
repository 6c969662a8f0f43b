package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/rankview/internal/domain/model"
	"github.com/tidwall/gjson"
)

// Decode parses a dataset document of the form
//
//	{"ranked": [ {...}, ... ], "vanilla": [ {...}, ... ]}
//
// Every record goes through the row adapter, so malformed records become
// zero-valued rows instead of failing the whole document. A missing
// channel decodes as an empty dataset.
func Decode(data []byte) (Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrDecode)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", ErrDecode)
	}

	ds := make(Dataset, len(model.Channels()))
	for _, ch := range model.Channels() {
		ds[ch] = model.NormalizeArray(doc.Get(string(ch)))
	}
	return ds, nil
}

// LoadFile reads and decodes the dataset document at path.
func LoadFile(ctx context.Context, path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSource, err)
	}
	ds, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSource, path, err)
	}
	s := NewMemoryStore(ctx)
	s.Replace(ctx, ds)
	return s, nil
}
