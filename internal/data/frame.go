package data

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/go-gota/gota/dataframe"
	"golang.org/x/exp/rand"
)

// Read reads a csv with a header line into a dataframe.
func Read(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return df, fmt.Errorf("could not read csv: %w", df.Err)
	}
	return df, nil
}

// ReadFile reads the csv file at the given path.
func ReadFile(file string) (dataframe.DataFrame, error) {
	f, err := os.Open(file)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("could not open '%s': %w", file, err)
	}
	defer f.Close()
	return Read(f)
}

// Sample shuffles the rows and keeps the first int(n*percentage) of them.
func Sample(df dataframe.DataFrame, percentage float64, seed uint64) (dataframe.DataFrame, error) {
	n := int(float64(df.Nrow()) * percentage)
	if n == 0 {
		return df, fmt.Errorf("%v of %d rows: %w", percentage, df.Nrow(), model.EmptyDatasetErr)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(df.Nrow())
	sample := df.Subset(perm[:n])
	if sample.Err != nil {
		return sample, fmt.Errorf("could not sample rows: %w", sample.Err)
	}
	return sample, nil
}

// DropNA removes every row that has a missing or non numeric value.
func DropNA(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	valid := make([]bool, df.Nrow())
	for i := range valid {
		valid[i] = true
	}
	for _, name := range df.Names() {
		for i, v := range df.Col(name).Float() {
			if math.IsNaN(v) {
				valid[i] = false
			}
		}
	}
	idx := make([]int, 0, df.Nrow())
	for i, ok := range valid {
		if ok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return df, fmt.Errorf("no complete rows: %w", model.EmptyDatasetErr)
	}
	if len(idx) == df.Nrow() {
		return df, nil
	}
	clean := df.Subset(idx)
	if clean.Err != nil {
		return clean, fmt.Errorf("could not drop rows: %w", clean.Err)
	}
	return clean, nil
}

// Extract splits the dataframe into the features and the target labels.
// The target and the dropped columns are not part of the features.
func Extract(df dataframe.DataFrame, target string, drop ...string) (model.Dataset, error) {
	if !has(df.Names(), target) {
		return model.Dataset{}, fmt.Errorf("unknown target column '%s'", target)
	}
	columns := make([]string, 0, df.Ncol())
	for _, name := range df.Names() {
		if name != target && !has(drop, name) {
			columns = append(columns, name)
		}
	}

	x := make([][]float64, df.Nrow())
	for i := range x {
		x[i] = make([]float64, len(columns))
	}
	for j, name := range columns {
		for i, v := range df.Col(name).Float() {
			x[i][j] = v
		}
	}
	y := make([]int, df.Nrow())
	for i, v := range df.Col(target).Float() {
		if v > 0 {
			y[i] = 1
		}
	}
	return model.NewDataset(columns, x, y)
}

func has(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
