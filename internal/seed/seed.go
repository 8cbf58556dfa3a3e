// Package seed holds the reference data the service starts with: the
// service catalog and the initial barber directory.
package seed

import "github.com/BruksfildServices01/homebarber/internal/models"

func Services() []models.Service {
	return []models.Service{
		{ID: "1", Name: "Haircut", Tag: "haircut", Icon: "scissors", Position: 1,
			Description: "Professional haircut service tailored to your style preferences."},
		{ID: "2", Name: "Beard Trim", Tag: "beard", Icon: "scissors", Position: 2,
			Description: "Expert beard trimming and styling for a clean, polished look."},
		{ID: "3", Name: "Styling", Tag: "styling", Icon: "scissors", Position: 3,
			Description: "Hair styling services including blow-drying, straightening, and more."},
		{ID: "4", Name: "Coloring", Tag: "coloring", Icon: "droplet", Position: 4,
			Description: "Professional hair coloring services for a fresh new look."},
		{ID: "5", Name: "Facial", Tag: "facial", Icon: "sparkles", Position: 5,
			Description: "Rejuvenating facial treatments to cleanse and refresh your skin."},
		{ID: "6", Name: "Kids Cut", Tag: "kids cut", Icon: "scissors", Position: 6,
			Description: "Gentle and patient haircuts for children of all ages."},
	}
}

func week(weekday, fri, sat, sun []string) models.Availability {
	return models.Availability{
		"Mon": weekday,
		"Tue": weekday,
		"Wed": weekday,
		"Thu": weekday,
		"Fri": fri,
		"Sat": sat,
		"Sun": sun,
	}
}

func Barbers() []models.Barber {
	return []models.Barber{
		{
			ID:         "1",
			Name:       "Hassan Ali",
			Email:      "hassan@example.com",
			Role:       "barber",
			Avatar:     "https://images.unsplash.com/photo-1621605815971-fbc98d665033?q=80&w=2070",
			Services:   []string{"haircut", "beard", "styling"},
			Rating:     4.9,
			Reviews:    86,
			Experience: 5,
			Bio:        "Professional barber with 5 years of experience specializing in modern cuts and beard styling.",
			Price:      120,
			Location:   &models.Location{Latitude: 33.5731104, Longitude: -7.5898434, Address: "Casablanca, Morocco"},
			Availability: week(
				[]string{"10:00", "12:00", "14:00", "16:00"},
				[]string{"10:00", "12:00", "14:00"},
				[]string{"10:00", "12:00"},
				[]string{},
			),
		},
		{
			ID:         "2",
			Name:       "Karim Mahmoud",
			Email:      "karim@example.com",
			Role:       "barber",
			Avatar:     "https://images.unsplash.com/photo-1503951914875-452162b0f3f1?q=80&w=2070",
			Services:   []string{"haircut", "beard", "coloring"},
			Rating:     4.8,
			Reviews:    64,
			Experience: 3,
			Bio:        "Specializing in trendy haircuts and beard grooming with attention to detail.",
			Price:      100,
			Location:   &models.Location{Latitude: 33.5950927, Longitude: -7.6187537, Address: "Ain Diab, Casablanca"},
			Availability: week(
				[]string{"09:00", "11:00", "13:00", "15:00", "17:00"},
				[]string{"09:00", "11:00", "13:00", "15:00"},
				[]string{"09:00", "11:00", "13:00"},
				[]string{},
			),
		},
		{
			ID:         "3",
			Name:       "Youssef Hamdi",
			Email:      "youssef@example.com",
			Role:       "barber",
			Avatar:     "https://images.unsplash.com/photo-1622286342621-4bd786c2447c?q=80&w=1974",
			Services:   []string{"haircut", "beard", "facial"},
			Rating:     5.0,
			Reviews:    42,
			Experience: 7,
			Bio:        "Master barber with expertise in classic and modern styles, facial treatments, and premium grooming services.",
			Price:      150,
			Location:   &models.Location{Latitude: 33.5731104, Longitude: -7.6098434, Address: "Maarif, Casablanca"},
			Availability: week(
				[]string{"10:30", "12:30", "14:30", "16:30"},
				[]string{"10:30", "12:30", "14:30"},
				[]string{"10:30", "12:30"},
				[]string{"10:30"},
			),
		},
	}
}
