// Package mongo implements store.Store using the official MongoDB
// driver. Suitable for deployments requiring horizontal scaling and
// flexible schema evolution.
//
// The caller owns the *mongo.Client lifecycle; this package never
// disconnects it. Pass a database handle through the constructor:
//
//	client, _ := mongod.Connect(options.Client().ApplyURI(uri))
//	store := mongostore.New(client.Database("n8n"))
//	store.Migrate(ctx)
package mongo
