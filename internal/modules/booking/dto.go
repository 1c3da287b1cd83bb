package booking

type SaveReceiptRequest struct {
	MovieID    string   `json:"movie_id"`
	MovieTitle string   `json:"movie_title" binding:"required"`
	Showtime   string   `json:"showtime"`
	Seats      []string `json:"seats" binding:"required"`
	Amount     float64  `json:"amount" binding:"required"`
	Currency   string   `json:"currency"`
	PaymentID  string   `json:"payment_id" binding:"required"`
	OrderID    string   `json:"order_id" binding:"required"`
}

type ReceiptView struct {
	ID         string   `json:"id"`
	UserName   string   `json:"user_name"`
	MovieID    string   `json:"movie_id"`
	MovieTitle string   `json:"movie_title"`
	Showtime   string   `json:"showtime"`
	Seats      []string `json:"seats"`
	Amount     int64    `json:"total_amount"`
	Currency   string   `json:"currency"`
	PaymentID  string   `json:"payment_id"`
	OrderID    string   `json:"order_id"`
	Status     string   `json:"status"`
	Timestamp  string   `json:"timestamp"`
}
