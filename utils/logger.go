package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	echo        bool
}

// NewETLLogger создает новый экземпляр логгера для ETL
func NewETLLogger(verbose bool) *ETLLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &ETLLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
		echo:        true,
	}
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	if l.echo {
		log.Println("INFO:", msg)
	}
}

// NewSilentLogger создает логгер, который ничего не выводит (для тестов)
func NewSilentLogger() *ETLLogger {
	discard := log.New(io.Discard, "", 0)
	return &ETLLogger{
		infoLogger:  discard,
		errorLogger: discard,
		debugLogger: discard,
		isVerbose:   false,
		echo:        false,
	}
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	if l.echo {
		log.Println("ERROR:", msg)
	}
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	if l.echo {
		log.Println("DEBUG:", msg)
	}
}

// LogETLStart логирует начало ETL-процесса
func (l *ETLLogger) LogETLStart(mode string) {
	l.Info("Начало выполнения ETL-процесса (режим: %s)", mode)
}

// LogETLComplete логирует завершение ETL-процесса
func (l *ETLLogger) LogETLComplete(startTime time.Time, records int, facts int) {
	duration := time.Since(startTime)
	l.Info("ETL-процесс завершён. Длительность: %v", duration)
	l.Info("Обработано: %d записей, %d фактов", records, facts)
}

// LogExtractStart логирует начало фазы извлечения данных
func (l *ETLLogger) LogExtractStart(path string) {
	l.Info("Начало фазы Extract (Извлечение данных из %s)", path)
}

// LogExtractComplete логирует завершение фазы извлечения данных
func (l *ETLLogger) LogExtractComplete(records int, columns int, duration time.Duration) {
	l.Info("Фаза Extract завершена. Длительность: %v", duration)
	l.Info("Извлечено: %d записей, %d колонок", records, columns)
}

// LogCleanComplete логирует завершение фазы очистки данных
func (l *ETLLogger) LogCleanComplete(rows int, duplicates int, duration time.Duration) {
	l.Info("Фаза Clean завершена. Длительность: %v", duration)
	l.Info("Очищено: %d записей, отброшено дубликатов: %d", rows, duplicates)
}

// LogTransformComplete логирует завершение фазы построения звездной схемы
func (l *ETLLogger) LogTransformComplete(facts int, dimensions int, duration time.Duration) {
	l.Info("Фаза Transform завершена. Длительность: %v", duration)
	l.Info("Построено: %d фактов, %d записей измерений", facts, dimensions)
}

// LogLoadComplete логирует завершение фазы загрузки данных
func (l *ETLLogger) LogLoadComplete(facts int, duration time.Duration) {
	l.Info("Фаза Load завершена. Длительность: %v", duration)
	l.Info("Загружено фактов: %d", facts)
}
