// AngelaMos | 2026
// dto.go

package social

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"       validate:"omitempty,min=1,max=100"`
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=3,max=30"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio       *string `json:"bio,omitempty"        validate:"omitempty,max=500"`
	Location  *string `json:"location,omitempty"   validate:"omitempty,max=100"`
	Website   *string `json:"website,omitempty"    validate:"omitempty,url"`
}

func (r UpdateProfileRequest) toUpdate() UserUpdate {
	return UserUpdate(r)
}

type CreatePostRequest struct {
	Content  string   `json:"content"             validate:"required,min=1,max=5000"`
	Type     string   `json:"type,omitempty"      validate:"omitempty,oneof=text image video"`
	MediaURL *string  `json:"media_url,omitempty" validate:"omitempty,url"`
	Category string   `json:"category,omitempty"  validate:"omitempty,max=50"`
	Tags     []string `json:"tags,omitempty"      validate:"omitempty,max=10,dive,min=1,max=30"`
}

func (r CreatePostRequest) toPost(userID string) NewPost {
	return NewPost{
		UserID:   userID,
		Content:  r.Content,
		Type:     r.Type,
		MediaURL: r.MediaURL,
		Category: r.Category,
		Tags:     r.Tags,
	}
}

type CreateCommentRequest struct {
	Content  string `json:"content"   validate:"required,min=1,max=2000"`
	IsPrayer bool   `json:"is_prayer"`
}

type CreateDuaRequestRequest struct {
	Title       string   `json:"title"              validate:"required,min=1,max=200"`
	Content     string   `json:"content"            validate:"required,min=1,max=5000"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=50"`
	IsUrgent    bool     `json:"is_urgent"`
	IsAnonymous bool     `json:"is_anonymous"`
	Tags        []string `json:"tags,omitempty"     validate:"omitempty,max=10,dive,min=1,max=30"`
}

func (r CreateDuaRequestRequest) toDuaRequest(userID string) NewDuaRequest {
	return NewDuaRequest{
		UserID:      userID,
		Title:       r.Title,
		Content:     r.Content,
		Category:    r.Category,
		IsUrgent:    r.IsUrgent,
		IsAnonymous: r.IsAnonymous,
		Tags:        r.Tags,
	}
}

type ShareResponse struct {
	PostID      string `json:"post_id"`
	SharesCount int64  `json:"shares_count"`
}
