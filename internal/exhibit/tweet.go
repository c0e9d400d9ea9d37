package exhibit

// NoCoordinate marks a tweet without an embedded position.
const NoCoordinate = -1

// Tweet is one message from the Twitter bridge.
type Tweet struct {
	City     string
	Hashtags string
	Nation   string
	Lon      float64
	Lat      float64
}

// HasCoordinates reports whether the bridge geotagged the tweet. A -1 in
// either coordinate means there is no position.
func (t Tweet) HasCoordinates() bool {
	return t.Lon != NoCoordinate && t.Lat != NoCoordinate
}

// CityLabel is the city as shown on screen.
func (t Tweet) CityLabel() string { return "#" + t.City }

// HashtagLabel is the hashtag text as shown on screen, empty when the tweet
// carried none.
func (t Tweet) HashtagLabel() string {
	if t.Hashtags == "" {
		return ""
	}
	return "#" + t.Hashtags
}
