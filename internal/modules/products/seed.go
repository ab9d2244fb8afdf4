package products

// DefaultCatalog is the launch assortment loaded by the migrate tool.
func DefaultCatalog() []Cookie {
	return []Cookie{
		{Name: "Lotus", DescriptionHe: "עוגיית חמאה עם ממרח לוטוס", DescriptionEn: "Butter cookie with Lotus spread", Price: 25, Active: true, Position: 1},
		{Name: "Oreo", DescriptionHe: "שוקולד לבן ופירורי אוראו", DescriptionEn: "White chocolate and Oreo crumbs", Price: 25, Active: true, Position: 2},
		{Name: "Pistachio", DescriptionHe: "קרם פיסטוק ושוקולד לבן", DescriptionEn: "Pistachio cream and white chocolate", Price: 25, Active: true, Position: 3},
		{Name: "Kinder", DescriptionHe: "שוקולד חלב וקינדר בואנו", DescriptionEn: "Milk chocolate and Kinder Bueno", Price: 25, Active: true, Position: 4},
		{Name: "Red Velvet", DescriptionHe: "רד ולווט עם גבינת שמנת", DescriptionEn: "Red velvet with cream cheese", Price: 25, Active: true, Position: 5},
		{Name: "Classic Chocolate Chip", DescriptionHe: "עוגיית שוקולד צ'יפס קלאסית", DescriptionEn: "Classic chocolate chip", Price: 25, Active: true, Position: 6},
	}
}
