package paymentprovider

// Запрос на создание заказа. Сумма в младших единицах валюты.
type CreateOrderRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"required"`
	Receipt  string `json:"receipt,omitempty"`
}

// Ответ шлюза на создание заказа
type CreateOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status"`
}
