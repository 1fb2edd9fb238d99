package toggle

import "github.com/yungbote/travelplanner-backend/internal/domain"

var (
	LikeVocabulary   = Vocabulary{Added: "added", Removed: "removed"}
	FollowVocabulary = Vocabulary{Added: "followed", Removed: "unfollowed"}
)

var Likes = Relation[domain.Like]{
	Name:          "like",
	Collection:    "likes",
	SubjectColumn: "user_id",
	ObjectColumn:  "post_id",
	Vocabulary:    LikeVocabulary,
	New: func(k Key) domain.Like {
		return domain.Like{UserID: k.Subject, PostID: k.Object}
	},
}

var Follows = Relation[domain.Follow]{
	Name:          "follow",
	Collection:    "follows",
	SubjectColumn: "user_id",
	ObjectColumn:  "target_user_id",
	Vocabulary:    FollowVocabulary,
	New: func(k Key) domain.Follow {
		return domain.Follow{UserID: k.Subject, TargetUserID: k.Object}
	},
}
