// en internal/infra/db/mongodb/store.go
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davicafu/hexatransactions/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Campos de auditoría que el Store rellena en las escrituras.
const (
	createdAtField = "createdAt"
	updatedAtField = "updatedAt"
)

// Options agrupa lo necesario para abrir la conexión.
type Options struct {
	URI            string
	Database       string
	URIOptions     string // query string cruda, ej. "retryWrites=true&w=majority"
	ConnectTimeout time.Duration // por intento de ping
	PingAttempts   int           // 0 o 1: un solo intento
	RetryDelay     time.Duration
}

// Store es el acceso genérico a documentos de una base de datos MongoDB.
// Se crea una vez al arrancar y se comparte entre peticiones.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// BuildURI compone uri/database?options. Si la URI ya trae base de datos o
// parámetros se respeta tal cual.
func BuildURI(uri, database, uriOptions string) string {
	uri = strings.TrimRight(uri, "/")
	if database != "" && !hasPath(uri) {
		uri = uri + "/" + database
	}
	if uriOptions = strings.TrimPrefix(uriOptions, "?"); uriOptions != "" {
		sep := "?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		uri = uri + sep + uriOptions
	}
	return uri
}

// hasPath indica si la URI ya incluye una ruta (base de datos) tras el host.
func hasPath(uri string) bool {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		rest = rest[:i]
	}
	return strings.Contains(rest, "/")
}

// Connect abre el cliente y comprueba que el primario responde. Un error
// aquí debe impedir que el servicio arranque.
func Connect(ctx context.Context, opts Options, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(BuildURI(opts.URI, opts.Database, opts.URIOptions)))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongoDB: %w", err)
	}

	ping := func(attempt int) error {
		pingCtx := ctx
		if opts.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			pingCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
			defer cancel()
		}
		err := client.Ping(pingCtx, readpref.Primary())
		if err != nil && attempt < opts.PingAttempts {
			log.Warn("⚠️ MongoDB no responde, reintentando", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}
	if err := utils.Retry(ctx, opts.PingAttempts, opts.RetryDelay, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	log.Info("✅ MongoDB conectado", zap.String("database", opts.Database))
	return NewStore(client, opts.Database), nil
}

// NewStore envuelve un cliente ya conectado.
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Close desconecta el cliente.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Collection devuelve la colección indicada.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Aggregate ejecuta el pipeline y decodifica todos los documentos en results
// (puntero a slice).
func (s *Store) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := s.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, results)
}

// Find decodifica en results todos los documentos que casan con filter.
func (s *Store) Find(ctx context.Context, collection string, filter interface{}, results interface{}, opts ...*options.FindOptions) error {
	cursor, err := s.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, results)
}

// InsertMany inserta los documentos asignando createdAt/updatedAt cuando no
// vienen informados.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []bson.M) (*mongo.InsertManyResult, error) {
	if len(docs) == 0 {
		return &mongo.InsertManyResult{}, nil
	}

	now := s.now()
	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, withTimestamps(doc, now))
	}
	return s.Collection(collection).InsertMany(ctx, batch)
}

// UpsertOne inserta o actualiza el documento que casa con filter. updatedAt
// siempre se refresca; createdAt sólo se fija al insertar.
func (s *Store) UpsertOne(ctx context.Context, collection string, filter interface{}, set bson.M) (*mongo.UpdateResult, error) {
	return s.Collection(collection).UpdateOne(ctx, filter, upsertUpdate(set, s.now()), options.Update().SetUpsert(true))
}

// CreateIndexes crea (si no existen) los índices indicados.
func (s *Store) CreateIndexes(ctx context.Context, collection string, models []mongo.IndexModel) ([]string, error) {
	return s.Collection(collection).Indexes().CreateMany(ctx, models)
}

// --- Helpers ---

func withTimestamps(doc bson.M, now time.Time) bson.M {
	out := make(bson.M, len(doc)+2)
	for k, v := range doc {
		out[k] = v
	}
	if _, ok := out[createdAtField]; !ok {
		out[createdAtField] = now
	}
	if _, ok := out[updatedAtField]; !ok {
		out[updatedAtField] = now
	}
	return out
}

func upsertUpdate(set bson.M, now time.Time) bson.M {
	fields := make(bson.M, len(set)+1)
	for k, v := range set {
		fields[k] = v
	}
	fields[updatedAtField] = now

	update := bson.M{"$set": fields}
	// $set y $setOnInsert no pueden tocar el mismo campo
	if _, ok := fields[createdAtField]; !ok {
		update["$setOnInsert"] = bson.M{createdAtField: now}
	}
	return update
}
