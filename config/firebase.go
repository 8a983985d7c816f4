package config

import firebase "firebase.google.com/go/v4"

// FirebaseConfig returns the app config for the Firebase SDK. A nil config lets the
// SDK pick the project from the credentials file or FIREBASE_CONFIG.
func FirebaseConfig() *firebase.Config {
	if AppConfig.FirebaseProjectID == "" {
		return nil
	}
	return &firebase.Config{ProjectID: AppConfig.FirebaseProjectID}
}
