package domain

// Relation représente un lien dirigé dans le graphe (User -> FOLLOWS -> User).
// Le flag Mutual est dérivé : true ssi les deux sens existent en même temps.
type Relation struct {
	OwnerID  int64
	TargetID int64
	Mutual   bool
}

// RelationStatus est utilisé pour l'UI (CheckRelation)
type RelationStatus struct {
	IsFollowing  bool // Owner suit Target
	IsFollowedBy bool // Target suit Owner
	IsMutual     bool
}

// Review est une critique de film. Useful est un agrégat dénormalisé :
// somme des ratings (+1/-1) courants, recalculé à chaque rate/unrate.
type Review struct {
	ID         int64
	FilmID     int64
	UserID     int64
	Content    string
	IsPositive bool
	Useful     int64
}

// Valeurs autorisées pour un rating de review.
const (
	RatingLike    = 1
	RatingDislike = -1
)

// FilmRank associe un film à son nombre total de likes (classements).
type FilmRank struct {
	FilmID int64
	Likes  int64
}

// EntityKind identifie le type d'entité vérifiable via l'EntityDirectory.
type EntityKind string

const (
	KindUser   EntityKind = "USER"
	KindFilm   EntityKind = "FILM"
	KindReview EntityKind = "REVIEW"
)
