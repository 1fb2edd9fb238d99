package filestore

import "github.com/yungbote/travelplanner-backend/internal/toggle"

func keyOf(subject, object string) toggle.Key {
	return toggle.Key{Subject: subject, Object: object}
}
