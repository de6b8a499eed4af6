package utils

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateGraceDays проверяет допустимый сдвиг отсечки (0 - 365 дней)
func ValidateGraceDays(days int) bool {
	return days >= 0 && days <= 365
}
