package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blisscet/store-api/config"
	"github.com/blisscet/store-api/pkg/helpers"
)

// Container holds the constructed infrastructure components. It is built
// once at startup and passed explicitly to whatever needs wiring, there
// are no package-level singletons.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger

	Mongo *mongo.Database
	Redis *redis.Client
	GCS   *storage.Client
	ES    *elasticsearch.Client

	JWT *helpers.JWTManager

	RabbitPub *helpers.RabbitPublisher
}
