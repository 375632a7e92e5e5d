package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unisearch/api/model"
)

type fakeImportStore struct {
	inserted  []model.University
	insertErr error
	logs      []*model.ImportLog
}

func (f *fakeImportStore) InsertUniversities(universities []model.University) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, universities...)
	return nil
}

func (f *fakeImportStore) CreateImportLog(log *model.ImportLog) error {
	f.logs = append(f.logs, log)
	return nil
}

const importHeader = "name,location,tuition_fee,acceptance_rate,scholarship_available,minimum_gpa,education_gap,description,image_url\n"

func TestImportCSV_CoercesRowTypes(t *testing.T) {
	csv := importHeader +
		"X,L,12000,50,TRUE,3.5,2,d,u\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 0, summary.Rejected)
	require.Len(t, store.inserted, 1)

	u := store.inserted[0]
	assert.Equal(t, "X", u.Name)
	assert.Equal(t, 12000, u.TuitionFee)
	assert.Equal(t, 50, u.AcceptanceRate)
	assert.True(t, u.ScholarshipAvailable)
	assert.Equal(t, 3.5, u.MinimumGPA)
	assert.Equal(t, 2, u.EducationGap)
}

func TestImportCSV_ScholarshipOnlyLiteralTrue(t *testing.T) {
	csv := importHeader +
		"A,L,1,1,true,3.0,1,d,u\n" +
		"B,L,1,1,yes,3.0,1,d,u\n" +
		"C,L,1,1,,3.0,1,d,u\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	require.NoError(t, err)
	require.Equal(t, 3, summary.Inserted)

	assert.True(t, store.inserted[0].ScholarshipAvailable)
	assert.False(t, store.inserted[1].ScholarshipAvailable)
	assert.False(t, store.inserted[2].ScholarshipAvailable)
}

func TestImportCSV_RejectsBadNumericRows(t *testing.T) {
	csv := importHeader +
		"Good,L,1000,40,true,3.0,1,d,u\n" +
		"Bad,L,not-a-number,40,true,3.0,1,d,u\n" +
		"AlsoGood,L,2000,60,false,2.5,3,d,u\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Rejected)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Line)
	assert.Equal(t, "tuition_fee", summary.Errors[0].Field)
}

func TestImportCSV_SkipsEmptyRows(t *testing.T) {
	csv := importHeader +
		"A,L,1,1,true,3.0,1,d,u\n" +
		",,,,,,,,\n" +
		"B,L,2,2,false,2.0,2,d,u\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Rejected)
}

func TestImportCSV_MissingColumnsAborts(t *testing.T) {
	csv := "name,location\nA,L\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Empty(t, store.inserted)
}

func TestImportCSV_ParseErrorAbortsBeforeInsert(t *testing.T) {
	// Second data row has a mismatched field count, which the CSV parser
	// reports as an error
	csv := importHeader +
		"A,L,1,1,true,3.0,1,d,u\n" +
		"B,L,1\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	assert.Nil(t, summary)
	assert.Error(t, err)
	assert.Empty(t, store.inserted)
}

func TestImportCSV_InsertFailureSurfaced(t *testing.T) {
	csv := importHeader + "A,L,1,1,true,3.0,1,d,u\n"

	store := &fakeImportStore{insertErr: errors.New("connection lost")}
	svc := NewImportService(store)

	summary, err := svc.ImportCSV(strings.NewReader(csv), 1, "universities.csv")
	assert.Nil(t, summary)
	assert.Error(t, err)
}

func TestImportCSV_WritesImportLog(t *testing.T) {
	csv := importHeader +
		"A,L,1,1,true,3.0,1,d,u\n" +
		"B,L,x,1,true,3.0,1,d,u\n"

	store := &fakeImportStore{}
	svc := NewImportService(store)

	_, err := svc.ImportCSV(strings.NewReader(csv), 42, "batch.csv")
	require.NoError(t, err)

	require.Len(t, store.logs, 1)
	assert.Equal(t, uint(42), store.logs[0].AdminID)
	assert.Equal(t, "batch.csv", store.logs[0].Filename)
	assert.Equal(t, 1, store.logs[0].Inserted)
	assert.Equal(t, 1, store.logs[0].Rejected)
}
