package mongo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

func TestDocuments(t *testing.T) {
	doc, err := jsonvalue.Parse([]byte(`[
		{"id": 7, "meta": {"a": true, "b": null}, "tags": [{"t": "x"}, {"t": "y"}]},
		{"id": 8}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	records, _ := jsonvalue.Records(doc)
	tbl := grid.Transform(records, grid.DefaultOptions())

	got := Documents(tbl)
	want := []any{
		bson.D{
			{Key: "_source", Value: 0}, {Key: "_index", Value: 0},
			{Key: "id", Value: int64(7)},
			{Key: "meta", Value: bson.D{{Key: "a", Value: true}, {Key: "b", Value: nil}}},
			{Key: "tags", Value: bson.D{{Key: "t", Value: "x"}}},
		},
		bson.D{
			{Key: "_source", Value: 0}, {Key: "_index", Value: 1},
			{Key: "id", Value: int64(7)},
			{Key: "meta", Value: bson.D{{Key: "a", Value: true}, {Key: "b", Value: nil}}},
			{Key: "tags", Value: bson.D{{Key: "t", Value: "y"}}},
		},
		bson.D{
			{Key: "_source", Value: 1}, {Key: "_index", Value: 0},
			{Key: "id", Value: int64(8)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Documents mismatch (-want +got):\n%s", diff)
	}
}

func TestBSONValue(t *testing.T) {
	dec, _ := primitive.ParseDecimal128("1.00000000000000000001")
	tests := []struct {
		in   jsonvalue.Value
		want any
	}{
		{jsonvalue.Null(), nil},
		{jsonvalue.Bool(true), true},
		{jsonvalue.String("s"), "s"},
		{jsonvalue.Number("42"), int64(42)},
		{jsonvalue.Number("2.5"), 2.5},
		{jsonvalue.Number("1.00000000000000000001"), dec},
		{jsonvalue.Array(jsonvalue.Int(1), jsonvalue.String("a")), bson.A{int64(1), "a"}},
		{jsonvalue.Obj(jsonvalue.Object{"z": jsonvalue.Int(1), "a": jsonvalue.Int(2)}),
			bson.D{{Key: "a", Value: int64(2)}, {Key: "z", Value: int64(1)}}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, bsonValue(tt.in), cmp.AllowUnexported(primitive.Decimal128{})); diff != "" {
			t.Errorf("bsonValue(%s) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
