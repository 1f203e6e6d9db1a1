// Package mongostore is the document persistence gateway. Product reads
// expand referenced categories with a $lookup, mirroring the document
// schema products{_id, name, about, price, categoryIds} and
// categories{_id, name}.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) products() *mongo.Collection   { return s.db.Collection("products") }
func (s *Store) users() *mongo.Collection      { return s.db.Collection("users") }
func (s *Store) orders() *mongo.Collection     { return s.db.Collection("orders") }
func (s *Store) categories() *mongo.Collection { return s.db.Collection("categories") }

type productDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	About       string               `bson:"about"`
	Price       float64              `bson:"price"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds"`
	Categories  []categoryDoc        `bson:"categories,omitempty"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
	Email    string             `bson:"email"`
}

type orderDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	ProductIDs []string           `bson:"productIds"`
	Total      float64            `bson:"total"`
	Payment    bool               `bson:"payment"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type categoryDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// oid parses a client-supplied id. A malformed id can never match a
// stored document, so it maps to ErrNotFound rather than a 500.
func oid(id string) (primitive.ObjectID, error) {
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return parsed, nil
}

func oids(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, parsed)
		}
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func (d productDoc) model() models.Product {
	p := models.Product{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		About: d.About,
		Price: d.Price,
	}
	for _, cid := range d.CategoryIDs {
		p.CategoryIDs = append(p.CategoryIDs, cid.Hex())
	}
	for _, cat := range d.Categories {
		p.Categories = append(p.Categories, cat.model())
	}
	return p
}

func (d userDoc) model() models.User {
	return models.User{ID: d.ID.Hex(), Username: d.Username, PasswordHash: d.Password, Email: d.Email}
}

func (d orderDoc) model() models.Order {
	return models.Order{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		ProductIDs: models.StringList(d.ProductIDs),
		Total:      d.Total,
		Payment:    d.Payment,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (d categoryDoc) model() models.Category {
	return models.Category{ID: d.ID.Hex(), Name: d.Name}
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	doc := productDoc{
		Name:        p.Name,
		About:       p.About,
		Price:       p.Price,
		CategoryIDs: oids(p.CategoryIDs),
	}
	res, err := s.products().InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

var lookupCategories = bson.D{{Key: "$lookup", Value: bson.M{
	"from":         "categories",
	"localField":   "categoryIds",
	"foreignField": "_id",
	"as":           "categories",
}}}

func (s *Store) Products(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	match := bson.M{}
	if f.Name != "" {
		match["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Name), "$options": "i"}
	}
	if f.About != "" {
		match["about"] = bson.M{"$regex": regexp.QuoteMeta(f.About), "$options": "i"}
	}
	if f.MaxPrice != nil {
		match["price"] = bson.M{"$lte": *f.MaxPrice}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		lookupCategories,
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.products().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Product, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": parsed}}},
		lookupCategories,
	}
	cur, err := s.products().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	p := docs[0].model()
	return &p, nil
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	parsed := oids(ids)
	if len(parsed) == 0 {
		return nil, nil
	}
	cur, err := s.products().Find(ctx, bson.M{"_id": bson.M{"$in": parsed}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Product, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}

// set translates a gateway field map into a $set document. Reference id
// lists are re-encoded as ObjectIDs on the product side.
func set(f store.Fields) bson.M {
	out := bson.M{}
	for k, v := range f {
		if k == "categoryIds" {
			if ids, ok := v.([]string); ok {
				out[k] = oids(ids)
			}
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Store) UpdateProduct(ctx context.Context, id string, f store.Fields) (*models.Product, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	after := options.After
	res := s.products().FindOneAndUpdate(ctx,
		bson.M{"_id": parsed},
		bson.M{"$set": set(f)},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	var doc productDoc
	if err := res.Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := s.products().FindOneAndDelete(ctx, bson.M{"_id": parsed}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	doc := userDoc{Username: u.Username, Password: u.PasswordHash, Email: u.Email}
	res, err := s.users().InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	cur, err := s.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.User, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := s.users().FindOne(ctx, bson.M{"_id": parsed}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	u := doc.model()
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, f store.Fields) (*models.User, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	after := options.After
	res := s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": parsed},
		bson.M{"$set": set(f)},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	var doc userDoc
	if err := res.Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	u := doc.model()
	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := s.users().FindOneAndDelete(ctx, bson.M{"_id": parsed}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	u := doc.model()
	return &u, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	doc := orderDoc{
		UserID:     o.UserID,
		ProductIDs: o.ProductIDs,
		Total:      o.Total,
		Payment:    o.Payment,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	res, err := s.orders().InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	cur, err := s.orders().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Order, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	if err := s.orders().FindOne(ctx, bson.M{"_id": parsed}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, f store.Fields) (*models.Order, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	update := set(f)
	update["updatedAt"] = time.Now().UTC()
	after := options.After
	res := s.orders().FindOneAndUpdate(ctx,
		bson.M{"_id": parsed},
		bson.M{"$set": update},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	var doc orderDoc
	if err := res.Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	parsed, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	if err := s.orders().FindOneAndDelete(ctx, bson.M{"_id": parsed}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat *models.Category) error {
	res, err := s.categories().InsertOne(ctx, categoryDoc{Name: cat.Name})
	if err != nil {
		return err
	}
	cat.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	cur, err := s.categories().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Category, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items, nil
}
