package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/vending-backend/infra/cloudrun"
	"github.com/GregMSThompson/vending-backend/infra/docker"
	"github.com/GregMSThompson/vending-backend/infra/firestore"
	"github.com/GregMSThompson/vending-backend/infra/identity"
	"github.com/GregMSThompson/vending-backend/infra/kms"
	"github.com/GregMSThompson/vending-backend/infra/provider"
	"github.com/GregMSThompson/vending-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs the firebase tokens on /api/receipts
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for receipts
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// gemini through vertex ai
		aiSrv, err := vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// key for entity secret backups
		keyName, err := kms.SetupEntitySecretKey(ctx, prov, "vending", "entity-secret")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, keyName, ident, db, aiSrv, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
