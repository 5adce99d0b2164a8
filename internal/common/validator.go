package common

import (
	"errors"
	"math"
)

// ValidateMovieID checks if the given TMDB movie ID is valid.
// It ensures the ID is a positive number.
func ValidateMovieID(id int) error {
	if id <= 0 {
		return errors.New("invalid TMDB movie id, less than or equal to 0")
	}

	return nil
}

// ValidateRating checks if the given rating value is one TMDB accepts.
// It expects a value between 0.5 and 10.0, in 0.5 steps.
func ValidateRating(value float64) error {
	if math.IsNaN(value) || value < 0.5 {
		return errors.New("invalid rating, less than 0.5")
	}

	if value > 10 {
		return errors.New("invalid rating, greater than 10.0")
	}

	if math.Mod(value*2, 1) != 0 {
		return errors.New("invalid rating, not a multiple of 0.5")
	}

	return nil
}

// ValidateCredentials checks the values needed to open a user session are present.
func ValidateCredentials(apiKey, username, password string) error {
	var errs []error
	if apiKey == "" {
		errs = append(errs, errors.New("missing api key"))
	}
	if username == "" {
		errs = append(errs, errors.New("missing username"))
	}
	if password == "" {
		errs = append(errs, errors.New("missing password"))
	}

	return errors.Join(errs...)
}
