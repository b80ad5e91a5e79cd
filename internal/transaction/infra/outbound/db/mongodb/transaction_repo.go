// en internal/transaction/infra/outbound/db/mongodb/transaction_repo.go
package mongodb

import (
	"context"
	"fmt"
	"time"

	// --- Importaciones del dominio y compartidas ---
	infraMongo "github.com/davicafu/hexatransactions/internal/infra/db/mongodb"
	sharedDomain "github.com/davicafu/hexatransactions/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexatransactions/internal/shared/infra/platform/query"
	transactionDomain "github.com/davicafu/hexatransactions/internal/transaction/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepoMongoDB implementa TransactionRepository para MongoDB.
type TransactionRepoMongoDB struct {
	store      *infraMongo.Store
	collection string
}

// Verificación estática de los puertos.
var (
	_ transactionDomain.TransactionRepository = (*TransactionRepoMongoDB)(nil)
	_ transactionDomain.TransactionSeeder     = (*TransactionRepoMongoDB)(nil)
)

// NewTransactionRepoMongoDB es el constructor del repositorio.
func NewTransactionRepoMongoDB(store *infraMongo.Store) *TransactionRepoMongoDB {
	return &TransactionRepoMongoDB{
		store:      store,
		collection: transactionDomain.CollectionName,
	}
}

// --- Structs de BSON para el mapeo ---

// facetResult es el único documento que devuelve la etapa $facet.
type facetResult struct {
	Data       []bson.M `bson:"data"`
	TotalCount []struct {
		Count int64 `bson:"count"`
	} `bson:"totalCount"`
}

// --- Lectura ---

// ListByCriteria resuelve página y total en una sola agregación:
// $match -> $sort -> $facet{data: [$skip, $limit], totalCount: [$count]}.
func (r *TransactionRepoMongoDB) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.OffsetPagination, sort sharedQuery.Sort) ([]transactionDomain.Transaction, int64, error) {
	var results []facetResult
	if err := r.store.Aggregate(ctx, r.collection, buildListPipeline(criteria, pagination, sort), &results); err != nil {
		return nil, 0, err
	}
	data, total := unwrapFacet(results)
	return data, total, nil
}

// FindLatest devuelve las n transacciones más recientes sin contar el total.
func (r *TransactionRepoMongoDB) FindLatest(ctx context.Context, n int64) ([]transactionDomain.Transaction, error) {
	var docs []bson.M
	opts := options.Find().
		SetSort(bson.D{{Key: transactionDomain.FieldCreatedAt, Value: -1}}).
		SetLimit(n)
	if err := r.store.Find(ctx, r.collection, bson.D{}, &docs, opts); err != nil {
		return nil, err
	}

	txs := make([]transactionDomain.Transaction, 0, len(docs))
	for _, doc := range docs {
		txs = append(txs, fromMongoDocument(doc))
	}
	return txs, nil
}

// --- Escritura (sólo herramientas de carga) ---

// Seed inserta las transacciones; createdAt/updatedAt los asigna el Store si faltan.
func (r *TransactionRepoMongoDB) Seed(ctx context.Context, txs []transactionDomain.Transaction) error {
	docs := make([]bson.M, 0, len(txs))
	for _, tx := range txs {
		docs = append(docs, bson.M(tx))
	}
	_, err := r.store.InsertMany(ctx, r.collection, docs)
	return err
}

// UpsertBy inserta o actualiza cada transacción usando field como clave.
// Devuelve cuántas se insertaron nuevas.
func (r *TransactionRepoMongoDB) UpsertBy(ctx context.Context, field string, txs []transactionDomain.Transaction) (int64, error) {
	var inserted int64
	for _, tx := range txs {
		key, ok := tx[field]
		if !ok {
			return inserted, fmt.Errorf("transaction without %q cannot be upserted", field)
		}
		res, err := r.store.UpsertOne(ctx, r.collection, bson.M{field: key}, bson.M(tx))
		if err != nil {
			return inserted, err
		}
		inserted += res.UpsertedCount
	}
	return inserted, nil
}

// EnsureIndexes crea los índices que usa el listado.
func (r *TransactionRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := r.store.CreateIndexes(ctx, r.collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: transactionDomain.FieldCreatedAt, Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys: bson.D{
				{Key: transactionDomain.FieldStatus, Value: 1},
				{Key: transactionDomain.FieldSubstatus, Value: 1},
				{Key: transactionDomain.FieldCreatedAt, Value: -1},
			},
			Options: options.Index().SetName("status_substatus_createdAt"),
		},
	})
	return err
}

// --- Helpers de Mapeo y Conversión ---

func buildListPipeline(criteria sharedDomain.Criteria, pagination sharedQuery.OffsetPagination, sort sharedQuery.Sort) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if filter := criteriaToMongoFilter(criteria); len(filter) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: filter}})
	}

	// Ordenamiento
	if sort.Field != "" {
		sortDir := 1 // Ascendente por defecto
		if sort.Desc {
			sortDir = -1 // Descendente
		}
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: sort.Field, Value: sortDir}}}})
	}

	// Paginación y total en la misma ida
	dataStages := bson.A{bson.D{{Key: "$skip", Value: pagination.Offset}}}
	if pagination.Limit > 0 {
		dataStages = append(dataStages, bson.D{{Key: "$limit", Value: int64(pagination.Limit)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "data", Value: dataStages},
		{Key: "totalCount", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
	}}})

	return pipeline
}

// criteriaToMongoFilter traduce las condiciones neutrales. Las condiciones
// sobre un mismo campo se agrupan en un único documento de operadores.
func criteriaToMongoFilter(criteria sharedDomain.Criteria) bson.D {
	filter := bson.D{}
	byField := map[string]int{}

	for _, c := range sharedDomain.Conditions(criteria) {
		op := bson.E{Key: mongoOperator(c.Op), Value: c.Value}
		if i, ok := byField[c.Field]; ok {
			filter[i].Value = append(filter[i].Value.(bson.D), op)
			continue
		}
		byField[c.Field] = len(filter)
		filter = append(filter, bson.E{Key: c.Field, Value: bson.D{op}})
	}
	return filter
}

// Mapeo de operadores genéricos a operadores de MongoDB
func mongoOperator(op sharedDomain.Operator) string {
	switch op {
	case sharedDomain.OpGt:
		return "$gt"
	case sharedDomain.OpGte:
		return "$gte"
	case sharedDomain.OpLt:
		return "$lt"
	case sharedDomain.OpLte:
		return "$lte"
	default:
		return "$eq" // Operador por defecto
	}
}

// unwrapFacet tolera un resultado vacío o sin totalCount: data=[] y total=0.
func unwrapFacet(results []facetResult) ([]transactionDomain.Transaction, int64) {
	data := []transactionDomain.Transaction{}
	if len(results) == 0 {
		return data, 0
	}

	facet := results[0]
	for _, doc := range facet.Data {
		data = append(data, fromMongoDocument(doc))
	}

	var total int64
	if len(facet.TotalCount) > 0 {
		total = facet.TotalCount[0].Count
	}
	return data, total
}

func fromMongoDocument(doc bson.M) transactionDomain.Transaction {
	tx := make(transactionDomain.Transaction, len(doc))
	for k, v := range doc {
		tx[k] = normalizeValue(v)
	}
	return tx
}

// normalizeValue convierte los tipos BSON en valores que se serializan bien
// a JSON. El resto del documento no se toca.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(val.T), 0).UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	case primitive.Binary:
		if (val.Subtype == bsontype.BinaryUUID || val.Subtype == bsontype.BinaryUUIDOld) && len(val.Data) == 16 {
			if id, err := uuid.FromBytes(val.Data); err == nil {
				return id.String()
			}
		}
		return val.Data
	case primitive.Null, primitive.Undefined:
		return nil
	case bson.M:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		return normalizeSlice(val)
	case []interface{}:
		return normalizeSlice(val)
	default:
		return v
	}
}

func normalizeSlice(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = normalizeValue(item)
	}
	return out
}
