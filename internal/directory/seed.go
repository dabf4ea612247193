package directory

var seedDoctors = []Doctor{
	{
		ID:           "dr-sarah-johnson",
		Name:         "Dr. Sarah Johnson",
		Specialty:    "Clinical Psychologist",
		Experience:   "12 years",
		Bio:          "Dr. Johnson specializes in cognitive behavioral therapy and treats anxiety, depression, and stress-related disorders.",
		Availability: "Monday-Thursday, 9 AM - 5 PM",
		Rating:       4.8,
	},
	{
		ID:           "dr-michael-chen",
		Name:         "Dr. Michael Chen",
		Specialty:    "Psychiatrist",
		Experience:   "15 years",
		Bio:          "Dr. Chen is a board-certified psychiatrist experienced in medication management for mood disorders and psychosis.",
		Availability: "Tuesday-Friday, 10 AM - 6 PM",
		Rating:       4.7,
	},
	{
		ID:           "dr-amelia-patel",
		Name:         "Dr. Amelia Patel",
		Specialty:    "Neuropsychologist",
		Experience:   "10 years",
		Bio:          "Dr. Patel specializes in the assessment and treatment of cognitive and behavioral problems related to brain disorders.",
		Availability: "Monday, Wednesday, Friday, 9 AM - 4 PM",
		Rating:       4.9,
	},
	{
		ID:           "dr-james-wilson",
		Name:         "Dr. James Wilson",
		Specialty:    "Mental Health Counselor",
		Experience:   "8 years",
		Bio:          "Dr. Wilson offers supportive counseling for relationship issues, life transitions, and personal development.",
		Availability: "Monday-Friday, 12 PM - 8 PM",
		Rating:       4.6,
	},
	{
		ID:           "dr-elena-rodriguez",
		Name:         "Dr. Elena Rodriguez",
		Specialty:    "Trauma Specialist",
		Experience:   "14 years",
		Bio:          "Dr. Rodriguez specializes in trauma recovery, PTSD treatment, and resilience building for individuals who have experienced adverse life events.",
		Availability: "Tuesday, Thursday, Saturday, 10 AM - 7 PM",
		Rating:       4.9,
	},
}
