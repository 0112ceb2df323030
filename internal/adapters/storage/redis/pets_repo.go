package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-adoption-api/internal/domain/pets"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Layout de keys:
//   <ns>pet:<id>     documento JSON
//   <ns>pets:by_seq  ZSET id -> secuencia de inserción
//   <ns>pets:seq     contador de secuencia
const (
	docPrefix = "pet:"
	indexKey  = "pets:by_seq"
	seqKey    = "pets:seq"
)

// petDocument es la forma persistida de una mascota.
type petDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	IsAdopted bool      `json:"isAdopted"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Seq       int64     `json:"seq"`
}

func toDocument(p pets.Pet, seq int64) petDocument {
	return petDocument{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Breed:     p.Breed,
		Age:       p.Age,
		IsAdopted: p.IsAdopted,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Seq:       seq,
	}
}

func (d petDocument) pet() pets.Pet {
	return pets.Pet{
		ID:        d.ID,
		Name:      d.Name,
		Type:      pets.Type(d.Type),
		Breed:     d.Breed,
		Age:       d.Age,
		IsAdopted: d.IsAdopted,
		Location:  d.Location,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// PetsRepo guarda mascotas como documentos JSON en Redis.
type PetsRepo struct {
	client    *goredis.Client
	namespace string
	now       func() time.Time
}

type Option func(*PetsRepo)

// WithNamespace antepone ns a todas las keys.
func WithNamespace(ns string) Option {
	return func(r *PetsRepo) { r.namespace = ns }
}

func NewPetsRepo(client *goredis.Client, opts ...Option) *PetsRepo {
	r := &PetsRepo{client: client, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open crea el cliente y verifica la conexión.
func Open(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *PetsRepo) docKey(id string) string { return r.namespace + docPrefix + id }
func (r *PetsRepo) indexKey() string        { return r.namespace + indexKey }
func (r *PetsRepo) seqKey() string          { return r.namespace + seqKey }

func (r *PetsRepo) Create(ctx context.Context, f pets.Fields) (pets.Pet, error) {
	p, err := pets.NewRecord(uuid.NewString(), f, r.now().UTC())
	if err != nil {
		return pets.Pet{}, err
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return pets.Pet{}, fmt.Errorf("next seq: %w", err)
	}

	data, err := json.Marshal(toDocument(p, seq))
	if err != nil {
		return pets.Pet{}, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(p.ID), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), &goredis.Z{Score: float64(seq), Member: p.ID})
		return nil
	})
	if err != nil {
		return pets.Pet{}, fmt.Errorf("save pet: %w", err)
	}
	return p, nil
}

func (r *PetsRepo) Find(ctx context.Context, filter pets.Filter, order pets.Sort) ([]pets.Pet, error) {
	var (
		ids []string
		err error
	)
	if order == pets.SortOldestFirst {
		ids, err = r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	} else {
		ids, err = r.client.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	if len(ids) == 0 {
		return []pets.Pet{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*goredis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.docKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("load pets: %w", err)
	}

	out := make([]pets.Pet, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			return nil, err
		}
		var doc petDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode pet: %w", err)
		}
		p := doc.pet()
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PetsRepo) FindByID(ctx context.Context, id string) (pets.Pet, error) {
	doc, err := r.load(ctx, r.client, id)
	if err != nil {
		return pets.Pet{}, err
	}
	return doc.pet(), nil
}

func (r *PetsRepo) UpdateByID(ctx context.Context, id string, f pets.Fields, mode pets.UpdateMode) (pets.Pet, error) {
	key := r.docKey(id)
	var out pets.Pet

	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		doc, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := pets.ApplyUpdate(doc.pet(), f, mode, r.now().UTC())
		if err != nil {
			return err
		}

		data, err := json.Marshal(toDocument(next, doc.Seq))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return fmt.Errorf("save pet: %w", err)
		}
		out = next
		return nil
	}, key)
	if err != nil {
		return pets.Pet{}, err
	}
	return out, nil
}

func (r *PetsRepo) DeleteByID(ctx context.Context, id string) (pets.Pet, error) {
	key := r.docKey(id)
	var out pets.Pet

	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		doc, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, r.indexKey(), id)
			return nil
		})
		if err != nil {
			return fmt.Errorf("delete pet: %w", err)
		}
		out = doc.pet()
		return nil
	}, key)
	if err != nil {
		return pets.Pet{}, err
	}
	return out, nil
}

// getter lo cumplen tanto *goredis.Client como *goredis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (r *PetsRepo) load(ctx context.Context, c getter, id string) (petDocument, error) {
	data, err := c.Get(ctx, r.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return petDocument{}, pets.ErrNotFound
		}
		return petDocument{}, err
	}
	var doc petDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return petDocument{}, fmt.Errorf("decode pet: %w", err)
	}
	return doc, nil
}
