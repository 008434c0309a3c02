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

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoOrderLine struct {
	ProductID       string  `bson:"product_id"`
	ProductName     string  `bson:"product_name"`
	Quantity        int     `bson:"quantity"`
	PriceAtPurchase float64 `bson:"price_at_purchase"`
}

type mongoOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID  string             `bson:"customer_id"`
	Lines       []mongoOrderLine   `bson:"lines"`
	TotalAmount float64            `bson:"total_amount"`
	Status      string             `bson:"status"`
	CreatedAt   int64              `bson:"created_at"`
}

func toMongoOrder(o *domain.Order) mongoOrder {
	lines := make([]mongoOrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = mongoOrderLine(l)
	}
	return mongoOrder{
		CustomerID:  o.CustomerID,
		Lines:       lines,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   timeToUnix(o.CreatedAt),
	}
}

func (mo mongoOrder) toDomain() *domain.Order {
	lines := make([]domain.OrderLine, len(mo.Lines))
	for i, l := range mo.Lines {
		lines[i] = domain.OrderLine(l)
	}
	return &domain.Order{
		ID:          mo.ID.Hex(),
		CustomerID:  mo.CustomerID,
		Lines:       lines,
		TotalAmount: mo.TotalAmount,
		Status:      domain.OrderStatus(mo.Status),
		CreatedAt:   unixToTime(mo.CreatedAt),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoOrder(order))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return r.findMany(ctx, bson.M{"customer_id": customerID})
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *OrderRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []*domain.Order
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, mo.toDomain())
	}
	return orders, cur.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CancelPlaced flips a PLACED order to CANCELLED in a single conditional
// update. The status filter makes the transition first-writer-wins: a second
// concurrent cancel matches nothing and gets ErrInvalidState, so stock is
// restored exactly once.
func (r *OrderRepository) CancelPlaced(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(domain.StatusPlaced)},
		bson.M{"$set": bson.M{"status": string(domain.StatusCancelled)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing order from one past its cancellation
			// window.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrInvalidState
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return mo.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
