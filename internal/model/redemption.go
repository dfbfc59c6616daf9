package model

type Redemption struct {
	BaseModel
	Email   string `gorm:"size:255;index;not null" json:"email"`
	OfferID uint   `gorm:"not null" json:"offerId"`
	Brand   string `gorm:"size:100" json:"brand"`
	Cost    int    `gorm:"not null" json:"cost"`
}

func (Redemption) TableName() string {
	return "redemptions"
}

type Offer struct {
	ID          uint   `json:"id"`
	Brand       string `json:"brand"`
	Offer       string `json:"offer"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
}

var offers = []Offer{
	{ID: 1, Brand: "Tim Hortons", Offer: "Free Double-Double Coffee", Description: "Enjoy Canada's favorite coffee on us!", Cost: 150, Emoji: "☕", Color: "#D4202A"},
	{ID: 2, Brand: "Canadian Tire", Offer: "$10 Off Purchase", Description: "Save on tools, automotive, and home goods", Cost: 300, Emoji: "🔧", Color: "#E31E24"},
	{ID: 3, Brand: "Loblaws", Offer: "$15 Grocery Credit", Description: "Fresh groceries and essentials discount", Cost: 450, Emoji: "🛒", Color: "#00A651"},
	{ID: 4, Brand: "Shoppers Drug Mart", Offer: "20% Off Beauty Products", Description: "Skincare, makeup, and wellness items", Cost: 200, Emoji: "💄", Color: "#E4002B"},
	{ID: 5, Brand: "Metro", Offer: "$20 Food Credit", Description: "Quality groceries and fresh produce", Cost: 600, Emoji: "🥬", Color: "#0066CC"},
	{ID: 6, Brand: "Boston Pizza", Offer: "Free Appetizer", Description: "Choose any starter with main course purchase", Cost: 250, Emoji: "🍕", Color: "#C8102E"},
	{ID: 7, Brand: "The Bay", Offer: "$25 Fashion Discount", Description: "Clothing, accessories, and home decor", Cost: 750, Emoji: "👗", Color: "#000000"},
	{ID: 8, Brand: "Cineplex", Offer: "Free Movie Ticket", Description: "Any regular 2D movie showing", Cost: 400, Emoji: "🎬", Color: "#8B1538"},
}

func Offers() []Offer {
	out := make([]Offer, len(offers))
	copy(out, offers)
	return out
}

func FindOffer(id uint) (Offer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return Offer{}, false
}
