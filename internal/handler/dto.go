package handler

import (
	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/domain"
	"github.com/msomdec/movie-ranker/internal/view"
)

func cardFromCatalog(m catalog.Movie, genreNames []string) view.MovieCard {
	return view.MovieCard{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		Popularity:  m.Popularity,
		Genres:      genreNames,
	}
}

func cardFromMovie(m *domain.Movie, genreNames []string) view.MovieCard {
	return view.MovieCard{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		Popularity:  m.Popularity,
		Genres:      genreNames,
	}
}

func cardsFromCatalog(movies []catalog.Movie, resolve func([]int64) []string) []view.MovieCard {
	cards := make([]view.MovieCard, len(movies))
	for i, m := range movies {
		cards[i] = cardFromCatalog(m, resolve(m.GenreIDs))
	}
	return cards
}

func cardsFromUserMovies(list []domain.UserMovie, resolve func([]int64) []string) []view.MovieCard {
	cards := make([]view.MovieCard, len(list))
	for i, um := range list {
		card := cardFromMovie(&um.Movie, resolve(um.GenreIDs))
		card.Rating = um.Rating
		cards[i] = card
	}
	return cards
}
