package domain

import "time"

// Client — покупатель, на которого оформляются заказы.
type Client struct {
	ID ID
	// Name — полное имя клиента.
	Name string
	// Cedula — национальный идентификационный код, уникален в системе.
	Cedula    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет обязательные поля клиента.
func (c *Client) ValidateInvariants() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, ErrClientNameRequired)
	}
	if c.Cedula == "" {
		errs = append(errs, ErrClientCedulaRequired)
	}
	return errs
}
