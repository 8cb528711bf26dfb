package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func addAccount(config *Config) {
	db, err := openDB(".carecal.db")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Println("🚀 Linking a calendar account...")
	fmt.Print("👤 Enter account name: ")
	var accountName string
	fmt.Scanln(&accountName)

	fmt.Print("🔄 Enter provider type (google or caldav): ")
	var providerType string
	fmt.Scanln(&providerType)
	providerType = strings.ToLower(providerType)

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("📅 Enter calendar ID or URL (empty for the default calendar): ")
	calendarID, _ := reader.ReadString('\n')
	calendarID = strings.TrimSpace(calendarID)

	ctx := context.Background()
	var providerConfig string

	switch providerType {
	case "google":
		provider, err := NewGoogleCalendarProvider(ctx, db, accountName, calendarID)
		if err != nil {
			log.Fatalf("Error creating Google calendar provider: %v", err)
		}
		if err := provider.CheckAccess(); err != nil {
			if err := provider.RequestAccess(); err != nil {
				log.Fatalf("Error authorizing Google calendar access: %v", err)
			}
		}

	case "caldav":
		if len(config.CalDAVs) == 0 {
			log.Fatalf("Error: No CalDAV server configurations found in .carecal.toml")
		}

		fmt.Println("Available CalDAV servers:")
		servers := make([]string, 0, len(config.CalDAVs))
		i := 0
		for name, server := range config.CalDAVs {
			displayName := name
			if server.Name != "" {
				displayName = server.Name
			}
			fmt.Printf("  %d: %s (%s)\n", i, displayName, server.ServerURL)
			servers = append(servers, name)
			i++
		}

		fmt.Print("Enter server number: ")
		var serverIndex int
		fmt.Scanln(&serverIndex)
		if serverIndex < 0 || serverIndex >= len(servers) {
			log.Fatalf("Error: Invalid server selection")
		}
		serverName := servers[serverIndex]
		serverConfig := config.CalDAVs[serverName]
		fmt.Printf("Using CalDAV server: %s\n", serverConfig.ServerURL)

		provider, err := NewCalDAVProvider(ctx, serverConfig.ServerURL, serverConfig.Username, serverConfig.Password, calendarID)
		if err != nil {
			log.Fatalf("Error creating CalDAV provider: %v", err)
		}
		if err := provider.CheckAccess(); err != nil {
			log.Fatalf("Error connecting to CalDAV server %s: %v", serverName, err)
		}
		providerConfig = serverName

	default:
		log.Fatalf("Error: Unsupported provider type: %s (must be 'google' or 'caldav')", providerType)
	}

	_, err = db.Exec(`INSERT OR REPLACE INTO accounts (account_name, provider_type, provider_config, calendar_id) VALUES (?, ?, ?, ?)`,
		accountName, providerType, providerConfig, calendarID)
	if err != nil {
		log.Fatalf("Error saving account: %v", err)
	}

	fmt.Printf("✅ %s account %s linked successfully\n", strings.ToUpper(providerType), accountName)
}

func addTask(config *Config) {
	db, err := openDB(".carecal.db")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)
	task := &Task{ID: uuid.NewString(), Category: categoryGeneral}

	fmt.Println("🚀 Capturing a task...")
	task.AccountName = promptLine(reader, "👤 Account name: ")
	task.Title = promptLine(reader, "📝 Title: ")
	task.Description = promptLine(reader, "📝 Description (optional): ")
	task.Note = promptLine(reader, "📝 Additional note (optional): ")
	task.Companion = promptLine(reader, "🐾 Companion name (optional): ")
	task.AssignedTo = promptLine(reader, "👤 Assigned to (optional): ")
	task.Date = promptLine(reader, "📅 Date (YYYY-MM-DD, optional): ")
	task.TimeOfDay = promptLine(reader, "⏰ Time (HH:MM, optional): ")
	task.Frequency = promptLine(reader, "🔁 Frequency (once/daily/weekly/monthly): ")

	if lead := promptLine(reader, "⏰ Reminder lead minutes (empty for default): "); lead != "" {
		if minutes, err := strconv.Atoi(lead); err == nil {
			task.ReminderMinutes = &minutes
		} else {
			fmt.Printf("  ⚠️ Ignoring unreadable lead time: %s\n", lead)
		}
	}

	category := strings.ToLower(promptLine(reader, "🏷 Category (general/medication/observation): "))
	switch category {
	case categoryMedication:
		task.Category = categoryMedication
		med := &MedicationDetails{}
		med.MedicineName = promptLine(reader, "💊 Medicine name: ")
		med.MedicineType = promptLine(reader, "💊 Medicine type (optional): ")
		if end := promptLine(reader, "📅 Recurrence end date (YYYY-MM-DD, optional): "); end != "" {
			if endDate, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
				med.EndDate = &endDate
			} else {
				fmt.Printf("  ⚠️ Ignoring unreadable end date: %s\n", end)
			}
		}
		fmt.Println("💊 Enter dosages as `label @ HH:MM`, empty line to finish:")
		for {
			line := promptLine(reader, "  • ")
			if line == "" {
				break
			}
			label, timeValue := line, ""
			if at := strings.LastIndex(line, "@"); at >= 0 {
				label = strings.TrimSpace(line[:at])
				timeValue = strings.TrimSpace(line[at+1:])
			}
			med.Dosages = append(med.Dosages, Dosage{
				ID:    uuid.NewString(),
				Label: label,
				Time:  timeValue,
			})
		}
		task.Details.Medication = med

	case categoryObservation:
		task.Category = categoryObservation
		task.Details.Observation = &ObservationDetails{
			ToolType: promptLine(reader, "🔬 Observation tool type: "),
		}
	}

	task.CalendarRef = parseCalendarRef(promptLine(reader, "📅 Target calendar ID (empty for default): "))

	if err := insertTask(db, task); err != nil {
		log.Fatalf("Error saving task: %v", err)
	}
	fmt.Printf("✅ Task %s saved. Run `carecal push %s` to add it to your calendar.\n", task.Title, task.ID)
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
