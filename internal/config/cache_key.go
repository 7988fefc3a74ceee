package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizLeaderboardKey returns the cache key holding a quiz's leaderboard snapshot.
func (r *CacheKeyStruct) QuizLeaderboardKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:leaderboard", quizID)
}

// QuizMonitorChannel returns the PubSub channel carrying live result updates
// for a quiz.
func (r *CacheKeyStruct) QuizMonitorChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:monitor", quizID)
}

// TrendingTopicsKey returns the cache key for scraped trending news topics.
func (r *CacheKeyStruct) TrendingTopicsKey() string {
	return "news:trending_topics"
}

// NewsContextKey returns the cache key holding the scraped article context
// for a topic, so regeneration shortly after a generation does not
// re-scrape the same pages.
func (r *CacheKeyStruct) NewsContextKey(topic string) string {
	return fmt.Sprintf("news:context:%s", topic)
}

var CacheKey = NewCacheKeyStruct()
