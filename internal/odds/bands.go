package odds

// Band groups American prices into the reporting ranges used by backtest breakdowns
type Band int

const (
	HeavyFavorite Band = iota
	MediumFavorite
	SlightFavorite
	PickEm
	SlightUnderdog
	BigUnderdog
)

// BandCount is the number of odds bands
const BandCount = int(BigUnderdog) + 1

var bandLabels = [BandCount]string{
	"Heavy fav (<= -300)",
	"Med fav (-300 to -150)",
	"Slight fav (-150 to -110)",
	"Pick-em (-110 to +110)",
	"Slight dog (+110 to +200)",
	"Big dog (> +200)",
}

func (b Band) String() string {
	if b < 0 || int(b) >= BandCount {
		return "unknown"
	}
	return bandLabels[b]
}

// BandFor classifies an American price
func BandFor(american float64) Band {
	switch {
	case american <= -300:
		return HeavyFavorite
	case american <= -150:
		return MediumFavorite
	case american < -110:
		return SlightFavorite
	case american <= 110:
		return PickEm
	case american <= 200:
		return SlightUnderdog
	default:
		return BigUnderdog
	}
}

// Bands lists all bands in display order
func Bands() []Band {
	out := make([]Band, BandCount)
	for i := range out {
		out[i] = Band(i)
	}
	return out
}
