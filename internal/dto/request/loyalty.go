package request

type CreateRewardRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=255"`
	PointsRequired int    `json:"pointsRequired" validate:"required,gt=0"`
}

type SetRewardActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
