package dto

type AppointmentListDTO struct {
	ID           string `json:"id"`
	BarberID     string `json:"barberId"`
	BarberName   string `json:"barberName,omitempty"`
	BarberAvatar string `json:"barberAvatar,omitempty"`
	CustomerID   string `json:"customerId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Service      string `json:"service"`
	Status       string `json:"status"`
}
