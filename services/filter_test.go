package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unisearch/api/model"
)

func testCatalog() []model.University {
	return []model.University{
		{Name: "Humboldt University", Location: "Berlin", Country: "Germany", TuitionFee: 1500, MinimumGPA: 3.0, EducationGap: 2, ScholarshipAvailable: true},
		{Name: "University of Helsinki", Location: "Helsinki", Country: "Finland", TuitionFee: 0, MinimumGPA: 3.5, EducationGap: 5, ScholarshipAvailable: false},
		{Name: "Charles University", Location: "Prague", Country: "Czech Republic", TuitionFee: 4000, MinimumGPA: 2.5, EducationGap: 3, ScholarshipAvailable: true},
		{Name: "Technical University of Berlin", Location: "Berlin", Country: "Germany", TuitionFee: 2000, MinimumGPA: 3.2, EducationGap: 1, ScholarshipAvailable: false},
	}
}

func TestFilterUniversities_EmptyQueryMatchesAll(t *testing.T) {
	catalog := testCatalog()
	result := FilterUniversities(catalog, "", DefaultFilterCriteria())
	assert.Len(t, result, len(catalog))
}

func TestFilterUniversities_QueryMatchesNameLocationCountry(t *testing.T) {
	catalog := testCatalog()

	byName := FilterUniversities(catalog, "helsinki", DefaultFilterCriteria())
	assert.Len(t, byName, 1)
	assert.Equal(t, "University of Helsinki", byName[0].Name)

	byLocation := FilterUniversities(catalog, "BERLIN", DefaultFilterCriteria())
	assert.Len(t, byLocation, 2)

	byCountry := FilterUniversities(catalog, "czech", DefaultFilterCriteria())
	assert.Len(t, byCountry, 1)
	assert.Equal(t, "Charles University", byCountry[0].Name)
}

func TestFilterUniversities_NumericCriteria(t *testing.T) {
	catalog := testCatalog()

	criteria := DefaultFilterCriteria()
	criteria.MaxTuition = 2000
	result := FilterUniversities(catalog, "", criteria)
	assert.Len(t, result, 3)
	for _, u := range result {
		assert.LessOrEqual(t, u.TuitionFee, 2000)
	}

	criteria = DefaultFilterCriteria()
	criteria.MinGPA = 3.0
	result = FilterUniversities(catalog, "", criteria)
	assert.Len(t, result, 3)
	for _, u := range result {
		assert.GreaterOrEqual(t, u.MinimumGPA, 3.0)
	}

	criteria = DefaultFilterCriteria()
	criteria.MaxEducationGap = 2
	result = FilterUniversities(catalog, "", criteria)
	assert.Len(t, result, 2)
}

func TestFilterUniversities_ScholarshipRequired(t *testing.T) {
	catalog := testCatalog()

	criteria := DefaultFilterCriteria()
	criteria.ScholarshipRequired = true
	result := FilterUniversities(catalog, "", criteria)
	assert.Len(t, result, 2)
	for _, u := range result {
		assert.True(t, u.ScholarshipAvailable)
	}
}

func TestFilterUniversities_CombinedQueryAndCriteria(t *testing.T) {
	catalog := testCatalog()

	criteria := DefaultFilterCriteria()
	criteria.ScholarshipRequired = true
	result := FilterUniversities(catalog, "berlin", criteria)
	assert.Len(t, result, 1)
	assert.Equal(t, "Humboldt University", result[0].Name)
}

func TestFilterUniversities_PreservesInputOrder(t *testing.T) {
	catalog := testCatalog()
	result := FilterUniversities(catalog, "", DefaultFilterCriteria())

	for i := range result {
		assert.Equal(t, catalog[i].Name, result[i].Name)
	}
}

func TestFilterUniversities_EmptyCollection(t *testing.T) {
	result := FilterUniversities(nil, "anything", DefaultFilterCriteria())
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
