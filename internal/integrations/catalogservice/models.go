package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	DurationMinutes  int     `json:"duration_minutes"`
	Price            float64 `json:"price"`
	SubSubCategoryID int64   `json:"sub_sub_category_id"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
