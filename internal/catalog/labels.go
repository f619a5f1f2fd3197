package catalog

// Canonical category keys shared by every news provider.
const (
	General       = "general"
	Domestic      = "domestic"
	World         = "world"
	Business      = "business"
	Technology    = "technology"
	Sports        = "sports"
	Entertainment = "entertainment"
	Science       = "science"
	Health        = "health"
	Military      = "military"
	Auto          = "auto"
	Game          = "game"
)

var labels = map[string]string{
	General:       "Headlines",
	Domestic:      "Domestic",
	World:         "World",
	Business:      "Business",
	Technology:    "Technology",
	Sports:        "Sports",
	Entertainment: "Entertainment",
	Science:       "Science",
	Health:        "Health",
	Military:      "Military",
	Auto:          "Auto",
	Game:          "Games",
}

// Label returns the display name for a canonical key, or the key itself.
func Label(id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id
}
