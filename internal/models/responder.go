package models

// Responder - организация (больница), которая может принять происшествие.
// Справочник заполняется извне и для ядра доступен только на чтение.
type Responder struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
