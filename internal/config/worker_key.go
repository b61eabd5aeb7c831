package config

type WorkerKeyStruct struct {
	NotificationLogQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotificationLogQueue: "notification_log_queue",
}
