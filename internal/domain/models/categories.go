// internal/domain/models/categories.go
package models

// Canonical material categories.
//
// The category decides how a card is rendered: Articles go to the
// featured slice and the archive, Videos get a player, everything else is
// shown in the library grid. Values are stored verbatim in the database
// and shown verbatim in the UI.
const (
	CategoryArticle  = "Artikel"
	CategoryVideo    = "Video"
	CategoryEssay    = "Esai/Analisis"
	CategoryNovel    = "Novel"
	CategoryPoetry   = "Puisi"
	CategoryShortFic = "Cerpen"
)

// Categories is the set offered by the publishing form, in display order.
var Categories = []string{
	CategoryArticle,
	CategoryVideo,
	CategoryEssay,
	CategoryNovel,
	CategoryPoetry,
	CategoryShortFic,
}

// FilterAll selects every non-article material in the library view.
const FilterAll = "all"

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Generator authorship and the fixed category/topic pairs it publishes with.
const (
	GeneratorAuthorEmail = "aksa-ai@cendekia.aksara"
	GeneratorImageURL    = "https://images.unsplash.com/photo-1455390582262-044cdead277a?q=80&w=1000"
	TopicDaily           = "Harian AI"
	TopicOnDemand        = "Pesanan Khusus"
)
