package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/noterepo"
	"github.com/redis/go-redis/v9"
)

type NoteCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) NoteCache {
	return NoteCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func noteKey(id string) string {
	return "note:" + id
}

func ownerKey(ownerID string) string {
	return "owner:" + ownerID + ":notes"
}

func (nc NoteCache) SetNote(ctx context.Context, note models.Note) error {
	noteJSON, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	// The owner set indexes cached notes so that deleting an account can
	// evict all of them at once.
	_, err = nc.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, noteKey(note.ID), noteJSON, nc.expTime)
		pipe.SAdd(ctx, ownerKey(note.OwnerID), note.ID)
		pipe.Expire(ctx, ownerKey(note.OwnerID), nc.expTime)

		return nil
	})
	if err != nil {
		return fmt.Errorf("set pipeline error: %w", err)
	}

	return nil
}

func (nc NoteCache) GetNote(ctx context.Context, id string) (models.Note, error) {
	noteJSON, err := nc.rdb.Get(ctx, noteKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Note{}, noterepo.ErrNotFound
	} else if err != nil {
		return models.Note{}, fmt.Errorf("get error: %w", err)
	}

	var note models.Note

	if err := json.Unmarshal(noteJSON, &note); err != nil {
		return models.Note{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return note, nil
}

func (nc NoteCache) DeleteNote(ctx context.Context, id string) error {
	if _, err := nc.rdb.Del(ctx, noteKey(id)).Result(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}

func (nc NoteCache) DeleteOwnerNotes(ctx context.Context, ownerID string) error {
	ids, err := nc.rdb.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return fmt.Errorf("smembers error: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, noteKey(id))
	}

	keys = append(keys, ownerKey(ownerID))

	if _, err := nc.rdb.Del(ctx, keys...).Result(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
