package venues

import (
	"fmt"

	hashids "github.com/speps/go-hashids/v2"
)

// CodeGenerator mints public venue codes from row ids, so URLs carry a
// short opaque token instead of the numeric primary key.
type CodeGenerator struct {
	h *hashids.HashID
}

func NewCodeGenerator(salt string) (*CodeGenerator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 6

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &CodeGenerator{h: h}, nil
}

func (g *CodeGenerator) Generate(venueID int64) (string, error) {
	code, err := g.h.EncodeInt64([]int64{venueID})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("gym-%s", code), nil
}
