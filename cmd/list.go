/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/allbin/go-baudscan"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial ports that can be scanned",
	Long: `List the serial ports detect and tune can be pointed at.

Scans for communication-capable serial devices including:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)

With --table, USB adapters are shown with their vendor and product IDs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := baudscan.ListPorts()
		if err != nil {
			return fmt.Errorf("failed to list ports: %w", err)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		infos := describePorts(ports)
		filtered := filterPorts(infos, filterType)
		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n", len(filtered))
			fmt.Println(renderPortTable(filtered))
			return nil
		}
		for _, info := range filtered {
			fmt.Println(info.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a table with USB details")
}

// describePorts resolves each path, keeping ports that vanished meanwhile
// as bare entries
func describePorts(ports []string) []*baudscan.PortInfo {
	infos := make([]*baudscan.PortInfo, 0, len(ports))
	for _, port := range ports {
		info, err := baudscan.GetPortInfo(port)
		if err != nil {
			name := port[strings.LastIndex(port, "/")+1:]
			info = &baudscan.PortInfo{Name: name, Path: port, Description: "Unavailable"}
		}
		infos = append(infos, info)
	}
	return infos
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(infos []*baudscan.PortInfo, filterType string) []*baudscan.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return infos
	}

	var filtered []*baudscan.PortInfo
	for _, info := range infos {
		name := strings.ToLower(info.Name)
		var keep bool
		switch filterType {
		case "usb":
			keep = strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
		case "standard":
			keep = strings.HasPrefix(name, "ttys")
		case "arm":
			keep = strings.HasPrefix(name, "ttyama")
		}
		if keep {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

const (
	colPort    = "port"
	colType    = "type"
	colUSB     = "usb"
	colProduct = "product"
)

func renderPortTable(infos []*baudscan.PortInfo) string {
	columns := []table.Column{
		table.NewColumn(colPort, "Port", 16),
		table.NewColumn(colType, "Type", 16),
		table.NewColumn(colUSB, "VID:PID", 10),
		table.NewColumn(colProduct, "Product", 28),
	}

	rows := make([]table.Row, len(infos))
	for i, info := range infos {
		usb := ""
		if info.VendorID != "" || info.ProductID != "" {
			usb = info.VendorID + ":" + info.ProductID
		}
		product := info.Product
		if product == "" {
			product = info.Description
		}
		rows[i] = table.NewRow(table.RowData{
			colPort:    info.Name,
			colType:    getPortType(info.Name),
			colUSB:     usb,
			colProduct: product,
		})
	}

	return table.New(columns).
		WithRows(rows).
		WithBaseStyle(tableBaseStyle).
		BorderRounded().
		View()
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
