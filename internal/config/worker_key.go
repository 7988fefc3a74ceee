package config

type WorkerKeyStruct struct {
	LeaderboardQueue string
}

var WorkerKey = &WorkerKeyStruct{
	LeaderboardQueue: "refresh_leaderboard_queue",
}
