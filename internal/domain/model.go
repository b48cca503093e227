package domain

type ModelDescriptor struct {
	ID      string
	Object  string
	OwnedBy string
}
