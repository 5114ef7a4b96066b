package db

import (
	"context"
	"encoding/json"
	"fmt"

	"wastewatch/pkg/types"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ConnectFirestore opens a Firestore client from the service account
// credentials resolved by config loading. The project comes from
// FIREBASE_PROJECT_ID, or else from the credentials themselves.
func ConnectFirestore(ctx context.Context, config *types.Config) (*firestore.Client, error) {
	if len(config.FirebaseCredentials) == 0 {
		return nil, &types.ConfigError{Field: "FIREBASE_SERVICE_ACCOUNT", Reason: "no firebase credentials loaded"}
	}

	projectID := config.FirebaseProjectID
	if projectID == "" {
		var err error
		projectID, err = ProjectIDFromCredentials(config.FirebaseCredentials)
		if err != nil {
			return nil, err
		}
	}

	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(config.FirebaseCredentials))
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return client, nil
}

// ProjectIDFromCredentials reads project_id out of a service account key.
func ProjectIDFromCredentials(credentials []byte) (string, error) {
	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(credentials, &key); err != nil {
		return "", &types.ConfigError{Field: "FIREBASE_SERVICE_ACCOUNT", Reason: fmt.Sprintf("invalid credentials json: %v", err)}
	}
	if key.ProjectID == "" {
		return "", &types.ConfigError{Field: "FIREBASE_PROJECT_ID", Reason: "not set and missing from credentials"}
	}
	return key.ProjectID, nil
}
