// Package ambience plays localized crowd chatter for the nation of each
// incoming tweet.
package ambience

import (
	"fmt"
	"time"
)

// Bucket groups nations sharing one chatter recording.
type Bucket string

const (
	Orient  Bucket = "orient"
	English Bucket = "english"
	Spanish Bucket = "spanish"
	French  Bucket = "french"
	German  Bucket = "german"
	Greek   Bucket = "greek"
	Italian Bucket = "italian"
)

// Buckets lists every bucket in a stable order.
var Buckets = []Bucket{Orient, English, Spanish, French, German, Greek, Italian}

var nations = map[string]Bucket{
	"Japan": Orient,
	"China": Orient,

	"United Kingdom": English,
	"United States":  English,
	"Canada":         English,
	"Ireland":        English,

	"Kingdom of Spain": Spanish,
	"Portugal":         Spanish,
	"Nicaragua":        Spanish,
	"Ecuador":          Spanish,
	"Andorra":          Spanish,

	"France":  French,
	"Germany": German,
	"Greece":  Greek,
	"Italy":   Italian,
}

// Offset windows. A replay starts at a random point inside the window so
// repeated tweets do not always sound the same. Orient always starts at 0.
var windows = map[Bucket]time.Duration{
	English: 120 * time.Second,
	Spanish: 60 * time.Second,
	French:  35 * time.Second,
	German:  35 * time.Second,
	Greek:   35 * time.Second,
	Italian: 35 * time.Second,
}

// ForNation maps a nation name to its bucket. Names match exactly.
func ForNation(nation string) (Bucket, bool) {
	b, ok := nations[nation]
	return b, ok
}

// Window returns the random start offset window of b, zero for none.
func (b Bucket) Window() time.Duration { return windows[b] }

// ParseBucket validates a bucket name from config.
func ParseBucket(name string) (Bucket, error) {
	for _, b := range Buckets {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown sound bucket %q", name)
}
