package pets

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeBody decodifica igual que el handler (UseNumber).
func decodeBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	require.NoError(t, dec.Decode(&body))
	return body
}

func TestValidatePetBody_Full(t *testing.T) {
	f, errs := ValidatePetBody(decodeBody(t, `{
		"name": "  Rex ",
		"type": "Dog",
		"breed": "Beagle",
		"age": 3,
		"isAdopted": true,
		"location": "Shelter A"
	}`), ValidateFull)

	require.Empty(t, errs)
	require.NotNil(t, f.Name)
	assert.Equal(t, "Rex", *f.Name)
	assert.Equal(t, TypeDog, *f.Type)
	assert.Equal(t, "Beagle", *f.Breed)
	assert.Equal(t, 3, *f.Age)
	assert.True(t, *f.IsAdopted)
	assert.Equal(t, "Shelter A", *f.Location)
}

func TestValidatePetBody_FullReportsEveryMissingField(t *testing.T) {
	_, errs := ValidatePetBody(map[string]any{}, ValidateFull)

	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: MsgNameRequired, Location: LocationBody},
		{Field: "type", Message: MsgInvalidType, Location: LocationBody},
		{Field: "age", Message: MsgInvalidAge, Location: LocationBody},
		{Field: "location", Message: MsgLocationRequired, Location: LocationBody},
	}, errs)
}

func TestValidatePetBody_Rules(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"blank name", `{"name": "   "}`, "name", MsgNameRequired},
		{"name not string", `{"name": 12}`, "name", MsgNameRequired},
		{"name too long", `{"name": "` + strings.Repeat("x", 51) + `"}`, "name", MsgNameTooLong},
		{"lowercase type", `{"type": "dog"}`, "type", MsgInvalidType},
		{"unknown type", `{"type": "Lizard"}`, "type", MsgInvalidType},
		{"negative age", `{"age": -1}`, "age", MsgInvalidAge},
		{"fractional age", `{"age": 2.5}`, "age", MsgInvalidAge},
		{"string age", `{"age": "2"}`, "age", MsgInvalidAge},
		{"bool age", `{"age": true}`, "age", MsgInvalidAge},
		{"huge integer age", `{"age": 3000000000}`, "age", MsgInvalidAge},
		{"huge exponent age", `{"age": 3e9}`, "age", MsgInvalidAge},
		{"huge float age", `{"age": 3000000000.0}`, "age", MsgInvalidAge},
		{"blank location", `{"location": ""}`, "location", MsgLocationRequired},
		{"breed not string", `{"breed": 5}`, "breed", MsgInvalidBreed},
		{"adopted not bool", `{"isAdopted": "true"}`, "isAdopted", MsgInvalidAdopted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := ValidatePetBody(decodeBody(t, tc.body), ValidatePartial)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.Equal(t, tc.msg, errs[0].Message)
			assert.Equal(t, LocationBody, errs[0].Location)
		})
	}
}

func TestValidatePetBody_NameLengthCountsCharacters(t *testing.T) {
	// 50 runas multibyte siguen siendo válidas.
	name := strings.Repeat("ñ", MaxNameLength)
	f, errs := ValidatePetBody(map[string]any{"name": name}, ValidatePartial)
	require.Empty(t, errs)
	assert.Equal(t, name, *f.Name)
}

func TestValidatePetBody_AgeAcceptsIntegralFloat(t *testing.T) {
	f, errs := ValidatePetBody(decodeBody(t, `{"age": 4.0}`), ValidatePartial)
	require.Empty(t, errs)
	assert.Equal(t, 4, *f.Age)

	f, errs = ValidatePetBody(decodeBody(t, `{"age": 0}`), ValidatePartial)
	require.Empty(t, errs)
	assert.Equal(t, 0, *f.Age)
}

func TestValidatePetBody_PartialOnlyPresentFields(t *testing.T) {
	f, errs := ValidatePetBody(decodeBody(t, `{"isAdopted": true}`), ValidatePartial)
	require.Empty(t, errs)
	assert.Nil(t, f.Name)
	assert.Nil(t, f.Type)
	assert.Nil(t, f.Age)
	assert.Nil(t, f.Location)
	assert.Nil(t, f.Breed)
	require.NotNil(t, f.IsAdopted)
	assert.True(t, *f.IsAdopted)
}

func TestValidatePetBody_NullBreedClears(t *testing.T) {
	f, errs := ValidatePetBody(decodeBody(t, `{"breed": null}`), ValidatePartial)
	require.Empty(t, errs)
	require.NotNil(t, f.Breed)
	assert.Equal(t, "", *f.Breed)
}

func TestValidatePetBody_IgnoresUnknownFields(t *testing.T) {
	_, errs := ValidatePetBody(decodeBody(t, `{"color": "brown", "id": "x"}`), ValidatePartial)
	assert.Empty(t, errs)
}

func TestValidateID(t *testing.T) {
	assert.Empty(t, ValidateID("3f2b6c9e-8a41-4d7e-9b0a-1c2d3e4f5a6b"))

	for _, id := range []string{"", "123", "not-a-uuid", "3f2b6c9e8a414d7e9b0a1c2d3e4f5a6bzz"} {
		errs := ValidateID(id)
		require.Len(t, errs, 1, id)
		assert.Equal(t, FieldError{Field: "id", Message: MsgInvalidID, Location: LocationParams}, errs[0])
	}
}

func TestValidateSearch(t *testing.T) {
	q, errs := ValidateSearch([]string{"dog"})
	assert.Empty(t, errs)
	assert.Equal(t, "dog", q)

	q, errs = ValidateSearch([]string{""})
	assert.Empty(t, errs)
	assert.Equal(t, "", q)

	for _, values := range [][]string{nil, {"a", "b"}} {
		_, errs := ValidateSearch(values)
		require.Len(t, errs, 1)
		assert.Equal(t, "q", errs[0].Field)
		assert.Equal(t, MsgInvalidQuery, errs[0].Message)
		assert.Equal(t, LocationQuery, errs[0].Location)
	}
}

func TestValidatePetBody_AgeUpperBound(t *testing.T) {
	f, errs := ValidatePetBody(decodeBody(t, `{"age": 2147483647}`), ValidatePartial)
	require.Empty(t, errs)
	assert.Equal(t, math.MaxInt32, *f.Age)
}
