package sim

// pkt builds a test packet with the fields that matter for discipline
// behavior: id, arrival time, priority (= flow id), and service time.
func pkt(id int, arrival float64, priority int, service float64) *Packet {
	return &Packet{
		ID:          id,
		ArrivalTime: arrival,
		Priority:    priority,
		Size:        1000,
		ServiceTime: service,
	}
}

// drain services every queued packet and returns the processed IDs in order.
func drain(d Discipline) []int {
	ids := make([]int, 0)
	for {
		p, ok := d.SelectNext()
		if !ok {
			break
		}
		ids = append(ids, p.ID)
	}
	return ids
}

// burst builds n packets all arriving at t=0 with the given priorities
// cycling over the slice, each with the given service time. IDs are 0..n-1.
func burst(n int, priorities []int, service float64) []*Packet {
	packets := make([]*Packet, n)
	for i := 0; i < n; i++ {
		packets[i] = pkt(i, 0, priorities[i%len(priorities)], service)
	}
	return packets
}
