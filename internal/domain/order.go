package domain

import (
	"math"
	"time"
)

// TaxRate — фиксированная ставка налога, применяется к subtotal каждой позиции.
const TaxRate = 0.15

// totalsTolerance — допуск при сверке float64-сумм заказа с суммами позиций.
const totalsTolerance = 1e-6

// Order агрегирует заказ клиента и его позиции.
// Суммы заказа всегда равны суммам соответствующих полей позиций.
type Order struct {
	ID       ID
	ClientID ID
	// Tax, Subtotal, Total пересчитываются workflow после материализации позиций.
	Tax       float64
	Subtotal  float64
	Total     float64
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine — одна позиция заказа. Принадлежит ровно одному заказу
// и удаляется вместе с ним.
type OrderLine struct {
	ID        ID
	OrderID   ID
	ProductID ID
	// Quantity — количество единиц товара, строго положительное.
	Quantity  int64
	Tax       float64
	Subtotal  float64
	Total     float64
	CreatedAt time.Time
}

// ValidateInvariants сверяет суммы заказа с суммами позиций и проверяет
// корректность каждой позиции.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ClientID == 0 {
		errs = append(errs, ErrClientRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}

	var tax, subtotal, total float64
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQuantityInvalid)
		}
		if line.ProductID == 0 {
			errs = append(errs, ErrLineProductRequired)
		}
		tax += line.Tax
		subtotal += line.Subtotal
		total += line.Total
	}

	if math.Abs(tax-o.Tax) > totalsTolerance ||
		math.Abs(subtotal-o.Subtotal) > totalsTolerance ||
		math.Abs(total-o.Total) > totalsTolerance {
		errs = append(errs, ErrTotalsMismatch)
	}

	return errs
}
