// Package mongo exports tables into MongoDB collections. Each row becomes
// one document whose fields follow the column tree, so a row of the table
//
//	id | tags.t
//	1  | x
//
// is stored as {"_source": 0, "_index": 0, "id": 1, "tags": {"t": "x"}}.
package mongo

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/export"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// DefaultDatabase is used when the config names none.
const DefaultDatabase = "gridshape"

func init() {
	export.Register("mongo", New)
}

// Exporter writes tables into collections of one database.
type Exporter struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    export.Config
}

// New connects to cfg.DSN (mongodb://host:27017) and pings the primary.
func New(ctx context.Context, cfg export.Config) (export.Exporter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}
	return &Exporter{client: client, db: client.Database(dbName), cfg: cfg}, nil
}

// Close disconnects the client.
func (e *Exporter) Close() error {
	return e.client.Disconnect(context.Background())
}

// Export inserts one document per row into the collection name, in
// batches of cfg.Batch() documents.
func (e *Exporter) Export(ctx context.Context, name string, t grid.Table) (int, error) {
	if err := gserrors.ValidateTableName(name); err != nil {
		return 0, err
	}
	coll := e.db.Collection(name)
	docs := Documents(t)

	n := 0
	for start := 0; start < len(docs); start += e.cfg.Batch() {
		end := min(start+e.cfg.Batch(), len(docs))
		res, err := coll.InsertMany(ctx, docs[start:end])
		if res != nil {
			n += len(res.InsertedIDs)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Documents converts every row of t into a bson.D. Missing cells are
// omitted; groups whose leaves are all missing are omitted too.
func Documents(t grid.Table) []any {
	docs := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		doc := bson.D{
			{Key: export.SourceColumn, Value: r.Source},
			{Key: export.IndexColumn, Value: r.Index},
		}
		docs[i] = append(doc, fields(t.Columns, "", r)...)
	}
	return docs
}

func fields(cols []grid.Column, prefix string, r grid.Row) bson.D {
	var d bson.D
	for _, c := range cols {
		key := strings.TrimPrefix(c.Path, prefix)
		if c.IsGroup() {
			if sub := fields(c.Children, c.Path+".", r); len(sub) > 0 {
				d = append(d, bson.E{Key: key, Value: sub})
			}
			continue
		}
		cell := r.Cell(c.Path)
		if cell.Missing {
			continue
		}
		d = append(d, bson.E{Key: key, Value: bsonValue(cell.Value)})
	}
	return d
}

// bsonValue converts v to its BSON counterpart. Numbers become int64 when
// integral and in range, float64 when float64 holds them exactly, and
// Decimal128 otherwise.
func bsonValue(v jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil
	case jsonvalue.KindBool:
		return v.Bool()
	case jsonvalue.KindString:
		return v.Literal()
	case jsonvalue.KindNumber:
		return bsonNumber(v.Literal())
	case jsonvalue.KindArray:
		a := make(bson.A, 0, v.Len())
		for _, e := range v.Elems() {
			a = append(a, bsonValue(e))
		}
		return a
	default:
		obj := v.Fields()
		d := make(bson.D, 0, len(obj))
		for _, k := range obj.Keys() {
			d = append(d, bson.E{Key: k, Value: bsonValue(obj[k])})
		}
		return d
	}
}

func bsonNumber(lit string) any {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i
	}
	if x, ok := export.ExactFloat(lit); ok {
		return x
	}
	if d, err := primitive.ParseDecimal128(lit); err == nil {
		return d
	}
	return lit
}
