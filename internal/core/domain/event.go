package domain

// EventType classe les actions sociales enregistrées dans le feed.
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

// Operation précise l'action effectuée sur l'entité.
type Operation string

const (
	OpAdd    Operation = "ADD"
	OpRemove Operation = "REMOVE"
	OpUpdate Operation = "UPDATE"
)

// Event est une entrée immuable du feed d'activité d'un utilisateur.
// ID est monotone croissant (attribué par le store), Timestamp en
// millisecondes epoch. EntityID référence l'objet de l'action :
// film (LIKE), autre utilisateur (FRIEND) ou review (REVIEW, et LIKE
// quand le like porte sur une review).
type Event struct {
	ID        int64
	Timestamp int64
	UserID    int64
	Type      EventType
	Operation Operation
	EntityID  int64
}
