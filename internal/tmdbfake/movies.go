package tmdbfake

import "github.com/ogero/tmdb-contract/pkg/tmdb"

// FightClub is movie 550.
var FightClub = tmdb.MovieDetails{
	Adult:        false,
	BackdropPath: "/hZkgoQYus5vegHoetLkCJzb17zJ.jpg",
	Budget:       63000000,
	Genres: []tmdb.Genre{
		{ID: 18, Name: "Drama"},
	},
	Homepage:         "http://www.foxmovies.com/movies/fight-club",
	ID:               550,
	IMDbID:           "tt0137523",
	OriginalLanguage: "en",
	OriginalTitle:    "Fight Club",
	Overview:         "A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy.",
	Popularity:       61.416,
	PosterPath:       "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
	ProductionCompanies: []tmdb.ProductionCompany{
		{ID: 508, Name: "Regency Enterprises", LogoPath: "/7cxRWzi4LsVm4Utfpr1hfARNurT.png", OriginCountry: "US"},
		{ID: 711, Name: "Fox 2000 Pictures", LogoPath: "/tEiIH5QesdheJmDAqQwvtN60727.png", OriginCountry: "US"},
	},
	ProductionCountries: []tmdb.ProductionCountry{
		{ISO3166_1: "US", Name: "United States of America"},
	},
	ReleaseDate: "1999-10-15",
	Revenue:     100853753,
	Runtime:     139,
	SpokenLanguages: []tmdb.SpokenLanguage{
		{ISO639_1: "en", Name: "English", EnglishName: "English"},
	},
	Status:      "Released",
	Tagline:     "Mischief. Mayhem. Soap.",
	Title:       "Fight Club",
	Video:       false,
	VoteAverage: 8.433,
	VoteCount:   26280,
}

// ReservoirDogs is movie 500.
var ReservoirDogs = tmdb.MovieDetails{
	Adult:        false,
	BackdropPath: "/kHlX3oqdD4VGaLpB8O78M25KfdS.jpg",
	Budget:       1200000,
	Genres: []tmdb.Genre{
		{ID: 80, Name: "Crime"},
		{ID: 53, Name: "Thriller"},
	},
	Homepage:         "https://www.miramax.com/movie/reservoir-dogs/",
	ID:               500,
	IMDbID:           "tt0105236",
	OriginalLanguage: "en",
	OriginalTitle:    "Reservoir Dogs",
	Overview:         "A botched robbery indicates a police informant, and the pressure mounts in the aftermath at a warehouse.",
	Popularity:       27.651,
	PosterPath:       "/xi8Iu6qyTfyZVDVy60raIOYJJmk.jpg",
	ProductionCompanies: []tmdb.ProductionCompany{
		{ID: 59, Name: "A Band Apart", LogoPath: "/qBzCanz7VVK5wGbQCm1GPtWyAKH.png", OriginCountry: "US"},
		{ID: 14, Name: "Miramax", LogoPath: "/m6AHu84oZQxvq7n1rsvMNJIAsMu.png", OriginCountry: "US"},
	},
	ProductionCountries: []tmdb.ProductionCountry{
		{ISO3166_1: "US", Name: "United States of America"},
	},
	ReleaseDate: "1992-09-02",
	Revenue:     2859750,
	Runtime:     99,
	SpokenLanguages: []tmdb.SpokenLanguage{
		{ISO639_1: "en", Name: "English", EnglishName: "English"},
	},
	Status:      "Released",
	Tagline:     "Every dog has his day.",
	Title:       "Reservoir Dogs",
	Video:       false,
	VoteAverage: 8.1,
	VoteCount:   14365,
}
