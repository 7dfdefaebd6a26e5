package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/price-ledger/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	SourceURL      string             `bson:"sourceUrl"`
	CurrentPrice   float64            `bson:"currentPrice"`
	PriceHistory   []float64          `bson:"priceHistory"`
	ReviewsSummary string             `bson:"reviewsSummary"`
	PurchaseCount  string             `bson:"purchaseCount"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func toDocument(p *models.TrackedProduct) productDocument {
	return productDocument{
		Title:          p.Title,
		Description:    p.Description,
		SourceURL:      p.SourceURL,
		CurrentPrice:   p.CurrentPrice,
		PriceHistory:   append([]float64(nil), p.PriceHistory...),
		ReviewsSummary: p.ReviewsSummary,
		PurchaseCount:  p.PurchaseCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d productDocument) toModel() *models.TrackedProduct {
	return &models.TrackedProduct{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		SourceURL:      d.SourceURL,
		CurrentPrice:   d.CurrentPrice,
		PriceHistory:   d.PriceHistory,
		ReviewsSummary: d.ReviewsSummary,
		PurchaseCount:  d.PurchaseCount,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// Insert stores a new product document. The unique index on sourceUrl rejects duplicates.
func (r *Repository) Insert(ctx context.Context, p *models.TrackedProduct) (*models.TrackedProduct, error) {
	const opn = "repository.mongo.Insert"

	doc := toDocument(p)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", opn, models.WrapError(models.KindDuplicateSource,
				fmt.Sprintf("product with url %s is already tracked", doc.SourceURL), err))
		}
		return nil, persistenceErr(opn, "failed to insert product", err)
	}

	r.log.DebugContext(ctx, "Product inserted", "op", opn, "id", doc.ID.Hex())

	return doc.toModel(), nil
}

// Get returns a product by its hex ObjectID.
func (r *Repository) Get(ctx context.Context, id string) (*models.TrackedProduct, error) {
	const opn = "repository.mongo.Get"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, notFound(id))
	}

	var doc productDocument
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", opn, notFound(id))
		}
		return nil, persistenceErr(opn, "failed to get product", err)
	}

	return doc.toModel(), nil
}

// AppendPrice applies $set, $push and $max in one single-document update, which MongoDB
// executes atomically; the returned document is the post-update state.
func (r *Repository) AppendPrice(
	ctx context.Context,
	id string,
	price float64,
	at time.Time,
) (*models.TrackedProduct, error) {
	const opn = "repository.mongo.AppendPrice"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, notFound(id))
	}

	update := bson.M{
		"$set":  bson.M{"currentPrice": price},
		"$push": bson.M{"priceHistory": price},
		"$max":  bson.M{"updatedAt": at},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", opn, notFound(id))
		}
		return nil, persistenceErr(opn, "failed to append price", err)
	}

	return doc.toModel(), nil
}

// List returns a page of products ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error) {
	const opn = "repository.mongo.List"

	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, persistenceErr(opn, "failed to count products", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, persistenceErr(opn, "failed to get products", err)
	}
	defer cur.Close(ctx)

	products := make([]models.TrackedProduct, 0, limit)
	for cur.Next(ctx) {
		var doc productDocument
		if err = cur.Decode(&doc); err != nil {
			return nil, 0, persistenceErr(opn, "failed to decode product", err)
		}
		products = append(products, *doc.toModel())
	}

	if err = cur.Err(); err != nil {
		return nil, 0, persistenceErr(opn, "cursor iteration error", err)
	}

	return products, total, nil
}

func notFound(id string) error {
	return models.NewError(models.KindNotFound, fmt.Sprintf("product %s not found", id))
}

func persistenceErr(opn, msg string, err error) error {
	return models.WrapError(models.KindPersistence, fmt.Sprintf("%s: %s", opn, msg), err)
}
