package rest

import "github.com/dualtech/ordenes-api/internal/domain"

// Wire-структуры API. Все идентификаторы сериализуются десятичными строками.

type clientDTO struct {
	ID     domain.ID `json:"clienteId"`
	Name   string    `json:"nombre"`
	Cedula string    `json:"cedula"`
}

type productDTO struct {
	ID          domain.ID `json:"productoId"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	Price       float64   `json:"precio"`
	Stock       int64     `json:"stock"`
}

type orderLineDTO struct {
	ID        domain.ID `json:"detalleId"`
	OrderID   domain.ID `json:"ordenId"`
	ProductID domain.ID `json:"productoId"`
	Quantity  int64     `json:"cantidad"`
	Tax       float64   `json:"impuesto"`
	Subtotal  float64   `json:"subtotal"`
	Total     float64   `json:"total"`
}

type orderDTO struct {
	ID       domain.ID      `json:"ordenId"`
	ClientID domain.ID      `json:"clienteId"`
	Tax      float64        `json:"impuesto"`
	Subtotal float64        `json:"subtotal"`
	Total    float64        `json:"total"`
	Lines    []orderLineDTO `json:"detalle"`
}

type createOrderRequest struct {
	OrderID  domain.ID       `json:"ordenId"`
	ClientID domain.ID       `json:"clienteId"`
	Lines    []orderLineItem `json:"detalle"`
}

type orderLineItem struct {
	ProductID domain.ID `json:"productoId"`
	Quantity  int64     `json:"cantidad"`
}

func toClientDTO(c domain.Client) clientDTO {
	return clientDTO{ID: c.ID, Name: c.Name, Cedula: c.Cedula}
}

func toClientDTOs(clients []domain.Client) []clientDTO {
	out := make([]clientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientDTO(c))
	}
	return out
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

func toProductDTOs(products []domain.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

func toOrderDTO(o domain.Order) orderDTO {
	lines := make([]orderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, orderLineDTO{
			ID:        line.ID,
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Tax:       line.Tax,
			Subtotal:  line.Subtotal,
			Total:     line.Total,
		})
	}
	return orderDTO{
		ID:       o.ID,
		ClientID: o.ClientID,
		Tax:      o.Tax,
		Subtotal: o.Subtotal,
		Total:    o.Total,
		Lines:    lines,
	}
}
