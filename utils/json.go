package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap 以 JSON 文本存入 sqlite
type JSONMap map[string]interface{}

// 实现 sql.Scanner 接口
func (jm *JSONMap) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*jm = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON: unsupported type %T", value)
	}
	if len(data) == 0 {
		*jm = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, jm)
}

// 实现 driver.Valuer 接口
func (jm JSONMap) Value() (driver.Value, error) {
	if jm == nil {
		return "{}", nil
	}
	v, err := json.Marshal(jm)
	return string(v), err
}
