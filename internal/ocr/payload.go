package ocr

import (
	"encoding/json"

	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
)

// DecodePayload reads a stored table payload. Two encodings exist in the
// wild: the cell-list form with sparse row_index/column_index cells, and a
// legacy form carrying pre-placed nested rows. grid.RawTable accepts
// either; tables with neither cells nor rows are dropped.
func DecodePayload(data []byte) ([]grid.RawTable, error) {
	var tables []grid.RawTable
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, common.WrapError(err, "decoding table payload")
	}
	kept := tables[:0]
	for _, t := range tables {
		if len(t.Cells) > 0 || len(t.PlacedRows) > 0 {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

// EncodePayload serializes tables for the result cache.
func EncodePayload(tables []grid.RawTable) ([]byte, error) {
	data, err := json.Marshal(tables)
	if err != nil {
		return nil, common.WrapError(err, "encoding table payload")
	}
	return data, nil
}
