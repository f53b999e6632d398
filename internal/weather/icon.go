package weather

// Icon maps a WMO weather code onto the icon set the app ships.
func Icon(code *int) string {
	if code == nil {
		return "cloudy"
	}
	switch c := *code; {
	case c == 0:
		return "sunny"
	case c >= 1 && c <= 3:
		return "partly-sunny"
	case c >= 45 && c <= 48:
		return "cloudy"
	case c >= 51 && c <= 67:
		return "rainy"
	case c >= 71 && c <= 77:
		return "snow"
	case c >= 80 && c <= 86:
		return "thunderstorm"
	default:
		return "cloudy"
	}
}
