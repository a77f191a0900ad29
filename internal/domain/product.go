package domain

import "time"

// Product — позиция каталога с ценой и остатком на складе.
type Product struct {
	ID   ID
	Name string
	// Description опционально; пустая строка означает отсутствие описания.
	Description string
	// Price — цена за единицу.
	Price float64
	// Stock — доступный остаток, не может быть отрицательным.
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrProductStockNegative)
	}
	return errs
}
