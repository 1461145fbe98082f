package logschema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema 定义每个日志事件所需的关键字段，便于集中校验。
type Schema struct {
	Event    string
	Required []string
}

var schemas = map[string]Schema{
	"auth_ok": {
		Event:    "auth_ok",
		Required: []string{"api_url"},
	},
	"order_place": {
		Event:    "order_place",
		Required: []string{"symbol", "side", "amount", "order_id"},
	},
	"order_cancel": {
		Event:    "order_cancel",
		Required: []string{"order_id"},
	},
	"order_modify": {
		Event:    "order_modify",
		Required: []string{"order_id", "amount", "price"},
	},
	"book_snapshot": {
		Event:    "book_snapshot",
		Required: []string{"symbol", "bid", "ask"},
	},
	"positions": {
		Event:    "positions",
		Required: []string{"count"},
	},
	"config_changed": {
		Event:    "config_changed",
		Required: []string{"path"},
	},
}

// Known 返回所有事件名，便于外部生成文档。
func Known() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate 检查日志字段是否包含 schema 中要求的 key。
func Validate(event string, fields map[string]interface{}) error {
	s, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range s.Required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ","))
	}
	return nil
}
