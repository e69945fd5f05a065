package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/datatypes"
)

type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(infra.AccountCollection)}
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoAccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoAccountRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*entity.Account, error) {
	var account entity.Account
	err := r.coll.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// videoDocument is the stored shape of a video record in MongoDB.
type videoDocument struct {
	ID             string                `bson:"_id"`
	Title          string                `bson:"title"`
	Description    string                `bson:"description"`
	VideoURL       string                `bson:"videoUrl"`
	ThumbnailURL   string                `bson:"thumbnailUrl"`
	Transformation entity.Transformation `bson:"transformation"`
	CreatedAt      time.Time             `bson:"createdAt"`
}

func toVideoDocument(v *entity.VideoRecord) videoDocument {
	return videoDocument{
		ID:             v.ID,
		Title:          v.Title,
		Description:    v.Description,
		VideoURL:       v.VideoURL,
		ThumbnailURL:   v.ThumbnailURL,
		Transformation: v.Transformation.Data(),
		CreatedAt:      v.CreatedAt,
	}
}

func (d videoDocument) toEntity() entity.VideoRecord {
	return entity.VideoRecord{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		VideoURL:       d.VideoURL,
		ThumbnailURL:   d.ThumbnailURL,
		Transformation: datatypes.NewJSONType(d.Transformation),
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

type MongoVideoRepository struct {
	coll *mongo.Collection
}

func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{coll: db.Collection(infra.VideoCollection)}
}

func (r *MongoVideoRepository) Create(ctx context.Context, video *entity.VideoRecord) error {
	if video == nil {
		return errors.New("video cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, toVideoDocument(video))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoVideoRepository) GetByID(ctx context.Context, id string) (*entity.VideoRecord, error) {
	var doc videoDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	video := doc.toEntity()
	return &video, nil
}

// List returns every record in the collection's natural order.
func (r *MongoVideoRepository) List(ctx context.Context) ([]entity.VideoRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	videos := make([]entity.VideoRecord, 0, len(docs))
	for _, doc := range docs {
		videos = append(videos, doc.toEntity())
	}
	return videos, nil
}

func (r *MongoVideoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}
