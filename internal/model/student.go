package model

// Student is the stored student document. The student id is the document's _id.
type Student struct {
	ID        string  `json:"id" bson:"_id"`
	FirstName string  `json:"first_name" bson:"first_name"`
	LastName  string  `json:"last_name" bson:"last_name"`
	Gender    string  `json:"gender" bson:"gender"`
	Age       int     `json:"age" bson:"age"`
	Height    int     `json:"height" bson:"height"`
	Weight    float64 `json:"weight" bson:"weight"`
}

// CreateStudentRequest is the body of POST /user. Pointers make a missing
// field distinguishable from a zero value so "required" means "present".
type CreateStudentRequest struct {
	ID        string   `json:"id" validate:"required,len=10"`
	FirstName *string  `json:"first_name" validate:"required,min=1"`
	LastName  *string  `json:"last_name" validate:"required,min=1"`
	Gender    *string  `json:"gender" validate:"required"`
	Age       *int     `json:"age" validate:"required"`
	Height    *int     `json:"height" validate:"required"`
	Weight    *float64 `json:"weight" validate:"required"`
}

// Student converts a validated request into a document.
func (r CreateStudentRequest) Student() Student {
	return Student{
		ID:        r.ID,
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
		Gender:    deref(r.Gender),
		Age:       deref(r.Age),
		Height:    deref(r.Height),
		Weight:    deref(r.Weight),
	}
}

// UpdateStudentRequest is the body of PATCH /user/:id. A nil field is left
// untouched in storage; omitempty drops it from the $set document.
type UpdateStudentRequest struct {
	FirstName *string  `json:"first_name,omitempty" bson:"first_name,omitempty" validate:"omitnil,min=1"`
	LastName  *string  `json:"last_name,omitempty" bson:"last_name,omitempty" validate:"omitnil,min=1"`
	Gender    *string  `json:"gender,omitempty" bson:"gender,omitempty"`
	Age       *int     `json:"age,omitempty" bson:"age,omitempty"`
	Height    *int     `json:"height,omitempty" bson:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Empty reports whether no field was supplied.
func (r UpdateStudentRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Gender == nil &&
		r.Age == nil && r.Height == nil && r.Weight == nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
