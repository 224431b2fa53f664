package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

// Neo4jFriendshipRepo stocke le graphe d'amitié en Neo4j : arêtes FOLLOWS
// portant une propriété mutual. Chaque mutation (insert + recalcul mutual
// des deux sens) tient dans UNE transaction write : c'est elle qui
// sérialise les adds/removes concurrents sur la même paire.
type Neo4jFriendshipRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jFriendshipRepo(driver neo4j.DriverWithContext) *Neo4jFriendshipRepo {
	return &Neo4jFriendshipRepo{driver: driver}
}

// EnsureSchema crée la contrainte d'unicité (et donc l'index) sur User.id.
func (r *Neo4jFriendshipRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

func (r *Neo4jFriendshipRepo) AddFriend(ctx context.Context, ownerID, targetID int64) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MERGE = idempotent. Si l'arête inverse existe déjà, les deux
		// arêtes passent à mutual dans la même transaction.
		query := `
			MERGE (a:User {id: $ownerId})
			MERGE (b:User {id: $targetId})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.mutual = false, r.created_at = datetime()
			WITH a, b, r
			OPTIONAL MATCH (b)-[rev:FOLLOWS]->(a)
			FOREACH (_ IN CASE WHEN rev IS NULL THEN [] ELSE [1] END |
				SET r.mutual = true, rev.mutual = true)
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"ownerId":  ownerID,
			"targetId": targetID,
		})
		return nil, err
	})
	return err
}

func (r *Neo4jFriendshipRepo) RemoveFriend(ctx context.Context, ownerID, targetID int64) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// L'arête inverse survit mais redevient un follow simple.
		// SET sur un rev NULL est un no-op.
		query := `
			MATCH (a:User {id: $ownerId}), (b:User {id: $targetId})
			OPTIONAL MATCH (a)-[r:FOLLOWS]->(b)
			DELETE r
			WITH a, b
			OPTIONAL MATCH (b)-[rev:FOLLOWS]->(a)
			SET rev.mutual = false
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"ownerId":  ownerID,
			"targetId": targetID,
		})
		return nil, err
	})
	return err
}

func (r *Neo4jFriendshipRepo) FriendIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:User {id: $ownerId})-[:FOLLOWS]->(b:User)
			RETURN b.id AS friendId
			ORDER BY friendId
		`
		res, err := tx.Run(ctx, query, map[string]any{"ownerId": ownerID})
		if err != nil {
			return nil, err
		}
		return collectIDs(ctx, res, "friendId")
	})
	if err != nil {
		return nil, err
	}
	return result.([]int64), nil
}

func (r *Neo4jFriendshipRepo) CommonFriendIDs(ctx context.Context, userID, otherID int64) ([]int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Intersection en une seule requête.
		query := `
			MATCH (a:User {id: $userId})-[:FOLLOWS]->(f:User)<-[:FOLLOWS]-(b:User {id: $otherId})
			RETURN f.id AS friendId
			ORDER BY friendId
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID, "otherId": otherID})
		if err != nil {
			return nil, err
		}
		return collectIDs(ctx, res, "friendId")
	})
	if err != nil {
		return nil, err
	}
	return result.([]int64), nil
}

func (r *Neo4jFriendshipRepo) RelationStatus(ctx context.Context, ownerID, targetID int64) (*domain.RelationStatus, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Les deux sens plus le flag stocké, en une seule requête.
		query := `
			MATCH (a:User {id: $ownerId}), (b:User {id: $targetId})
			OPTIONAL MATCH (a)-[r:FOLLOWS]->(b)
			OPTIONAL MATCH (b)-[rev:FOLLOWS]->(a)
			RETURN r IS NOT NULL AS following,
			       rev IS NOT NULL AS followedBy,
			       coalesce(r.mutual, false) AS mutual
		`
		res, err := tx.Run(ctx, query, map[string]any{"ownerId": ownerID, "targetId": targetID})
		if err != nil {
			return nil, err
		}

		if res.Next(ctx) {
			rec := res.Record()
			following, _ := rec.Get("following")
			followedBy, _ := rec.Get("followedBy")
			mutual, _ := rec.Get("mutual")
			return &domain.RelationStatus{
				IsFollowing:  following.(bool),
				IsFollowedBy: followedBy.(bool),
				IsMutual:     mutual.(bool),
			}, nil
		}
		// Aucun noeud trouvé : false/false.
		return &domain.RelationStatus{}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.RelationStatus), nil
}

func collectIDs(ctx context.Context, res neo4j.ResultWithContext, key string) ([]int64, error) {
	var ids []int64
	for res.Next(ctx) {
		value, _ := res.Record().Get(key)
		ids = append(ids, value.(int64))
	}
	return ids, res.Err()
}
