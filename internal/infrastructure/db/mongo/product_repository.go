package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type mongoProduct struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	SellerID      string             `bson:"seller_id"`
	Name          string             `bson:"name"`
	Price         float64            `bson:"price"`
	StockQuantity int                `bson:"stock_quantity"`
	CreatedAt     int64              `bson:"created_at"`
}

func (mp mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:            mp.ID.Hex(),
		SellerID:      mp.SellerID,
		Name:          mp.Name,
		Price:         mp.Price,
		StockQuantity: mp.StockQuantity,
		CreatedAt:     unixToTime(mp.CreatedAt),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProduct{
		SellerID:      product.SellerID,
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		CreatedAt:     timeToUnix(product.CreatedAt),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	created := *product
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"seller_id": sellerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var products []*domain.Product
	for cur.Next(ctx) {
		var mp mongoProduct
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, mp.toDomain())
	}
	return products, cur.Err()
}

func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"seller_id": sellerID})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// AdjustStock applies delta to the stock counter in a single conditional
// update. For a decrement the filter requires stock_quantity >= -delta, so
// the counter can never go below zero even under concurrent placements; a
// failed guard surfaces as InsufficientStockError.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return 0, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["stock_quantity"] = bson.M{"$gte": -delta}
	}

	var mp mongoProduct
	err = r.col.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"stock_quantity": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// No match means either the product is gone or the guard failed.
			if _, findErr := r.FindByID(ctx, productID); findErr != nil {
				return 0, findErr
			}
			return 0, &domain.InsufficientStockError{ProductID: productID}
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return mp.StockQuantity, nil
}

// EnsureIndexes creates necessary indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
