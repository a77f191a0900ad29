package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID — числовой идентификатор сущности, назначаемый сервером.
// В JSON сериализуется десятичной строкой, чтобы большие значения
// не терялись в клиентах с 53-битными числами.
type ID int64

// String возвращает десятичное представление идентификатора.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON кодирует идентификатор строкой: 42 -> "42".
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON принимает и строку, и число; null трактуется как 0.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("parse id: %w", err)
		}
		if unquoted == "" {
			*id = 0
			return nil
		}
		data = []byte(unquoted)
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", string(data), err)
	}
	*id = ID(value)
	return nil
}
