package postgres

import (
	"encoding/json"
	"fmt"
)

// jsonbValue は map を JSONB パラメータ用のバイト列へ変換します。nil は NULL になります。
func jsonbValue(data map[string]any) (any, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("postgres: marshal jsonb: %w", err)
	}
	return b, nil
}

// unmarshalJSONB は JSONB カラムのバイト列を map へ復元します。NULL は nil になります。
func unmarshalJSONB(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal jsonb: %w", err)
	}
	return m, nil
}
